package pricing

var defaultFlavors = []string{
	"Kem Bơ", "Kem Bubble gum", "Kem Cà phê", "Kem Chocolate cookie", "Kem Cốm",
	"Kem Đào", "Kem Dâu tằm", "Kem Dâu tây", "Kem Dừa", "Kem Dừa lưới",
	"Kem Khoai môn", "Kem Kiwi", "Kem Măng cầu", "Kem Mè đen", "Kem Nhãn",
	"Kem Ổi hồng", "Kem Rum nho", "Kem Sầu riêng", "Kem Socola", "Kem Sữa chua phô mai",
	"Kem Trà sữa", "Kem Trà xanh", "Kem Vải", "Kem Vani", "Kem Việt quất",
	"Kem Xoài", "Kem Bạc hà chip", "Kem Ngân hà", "Kem sữa chua", "Kem sữa gạo",
	"Kem Phúc Bồn Tử", "Kem Sorbet Chanh bạc hà", "Kem Sorbet Chanh dây", "Kem Sorbet Dứa mật",
}
