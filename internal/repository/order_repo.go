package repository

import (
	"babyboss-sales/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepository interface {
	FindByID(id string) (*model.Order, error)
	FindAll() ([]model.Order, error)
	FindByCustomer(customerID string) ([]model.Order, error)
	CountByCustomer(customerID string) (int64, error)
	Create(order *model.Order) error
	Upsert(orders []model.Order) error
}

type orderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) OrderRepository {
	return &orderRepo{db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Toppings", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

func (r *orderRepo) FindByID(id string) (*model.Order, error) {
	var o model.Order
	if err := withItems(r.db).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (r *orderRepo) FindAll() ([]model.Order, error) {
	var orders []model.Order
	if err := withItems(r.db).Order("date, created_at, id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) FindByCustomer(customerID string) ([]model.Order, error) {
	var orders []model.Order
	if err := withItems(r.db).Where("customer_id = ?", customerID).Order("date, created_at, id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepo) CountByCustomer(customerID string) (int64, error) {
	var n int64
	err := r.db.Model(&model.Order{}).Where("customer_id = ?", customerID).Count(&n).Error
	return n, err
}

// Create stores the order and its rows in one transaction.
func (r *orderRepo) Create(order *model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}
		return replaceRows(tx, order)
	})
}

// Upsert overwrites orders by id, replacing their rows.
func (r *orderRepo) Upsert(orders []model.Order) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i := range orders {
			o := &orders[i]
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Omit(clause.Associations).Create(o).Error; err != nil {
				return err
			}
			if err := replaceRows(tx, o); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceRows(tx *gorm.DB, o *model.Order) error {
	if err := tx.Where("order_id = ?", o.ID).Delete(&model.IceCreamItem{}).Error; err != nil {
		return err
	}
	if err := tx.Where("order_id = ?", o.ID).Delete(&model.ToppingItem{}).Error; err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].ID, o.Items[i].OrderID, o.Items[i].Position = 0, o.ID, i
	}
	for i := range o.Toppings {
		o.Toppings[i].ID, o.Toppings[i].OrderID, o.Toppings[i].Position = 0, o.ID, i
	}
	if len(o.Items) > 0 {
		if err := tx.Create(&o.Items).Error; err != nil {
			return err
		}
	}
	if len(o.Toppings) > 0 {
		if err := tx.Create(&o.Toppings).Error; err != nil {
			return err
		}
	}
	return nil
}
