package model

// Privilege represents a permission granted through a role
type Privilege struct {
	Code string `json:"code"` // e.g., "order:create"
	Name string `json:"name"` // e.g., "Create Order"
}

// Privilege codes checked by the route middleware.
const (
	PrivCustomerView     = "customer:view"
	PrivCustomerCreate   = "customer:create"
	PrivCustomerUpdate   = "customer:update"
	PrivCustomerReassign = "customer:reassign"
	PrivOrderView        = "order:view"
	PrivOrderCreate      = "order:create"
	PrivReportView       = "report:view"
	PrivReportAnalysis   = "report:analysis"
	PrivReportExport     = "report:export"
	PrivUserView         = "user:view"
	PrivUserCreate       = "user:create"
	PrivUserUpdate       = "user:update"
	PrivSyncManage       = "sync:manage"
)

// DefaultPrivileges for the system
var DefaultPrivileges = []Privilege{
	// Customers
	{Code: PrivCustomerView, Name: "View Customer"},
	{Code: PrivCustomerCreate, Name: "Create Customer"},
	{Code: PrivCustomerUpdate, Name: "Update Customer"},
	{Code: PrivCustomerReassign, Name: "Reassign Customer Owner"},
	// Orders
	{Code: PrivOrderView, Name: "View Order"},
	{Code: PrivOrderCreate, Name: "Create Order"},
	// Reports
	{Code: PrivReportView, Name: "View Reports"},
	{Code: PrivReportAnalysis, Name: "View Market Analysis"},
	{Code: PrivReportExport, Name: "Export Reports"},
	// User management (admin only)
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserCreate, Name: "Create User"},
	{Code: PrivUserUpdate, Name: "Update User"},
	// Sheet sync
	{Code: PrivSyncManage, Name: "Manage Sheet Sync"},
}

var staffPrivileges = []string{
	PrivCustomerView, PrivCustomerCreate, PrivCustomerUpdate,
	PrivOrderView, PrivOrderCreate,
	PrivReportView, PrivReportExport,
}

var managerPrivileges = append(append([]string{}, staffPrivileges...),
	PrivCustomerReassign, PrivReportAnalysis,
)

var adminPrivileges = append(append([]string{}, managerPrivileges...),
	PrivUserView, PrivUserCreate, PrivUserUpdate, PrivSyncManage,
)

// PrivilegesFor returns the privilege codes granted to a role.
func PrivilegesFor(r Role) []string {
	var codes []string
	switch r {
	case RoleAdmin:
		codes = adminPrivileges
	case RoleManager:
		codes = managerPrivileges
	default:
		codes = staffPrivileges
	}
	return append([]string(nil), codes...)
}

func init() {
	for i := range DefaultRoles {
		DefaultRoles[i].Privileges = PrivilegesFor(DefaultRoles[i].Code)
	}
}
