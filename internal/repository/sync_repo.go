package repository

import (
	"babyboss-sales/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncRepository stores the push outbox and sync markers.
type SyncRepository interface {
	Enqueue(entry *model.PendingSync) error
	All() ([]model.PendingSync, error)
	Update(entry *model.PendingSync) error
	Delete(id uint) error
	Count() (int64, error)
	PendingRecordIDs() (map[string]struct{}, error)
	GetState(key string) (string, error)
	SetState(key, value string) error
}

type syncRepo struct {
	db *gorm.DB
}

func NewSyncRepo(db *gorm.DB) SyncRepository {
	return &syncRepo{db}
}

func (r *syncRepo) Enqueue(entry *model.PendingSync) error {
	return r.db.Create(entry).Error
}

func (r *syncRepo) All() ([]model.PendingSync, error) {
	var entries []model.PendingSync
	err := r.db.Order("id").Find(&entries).Error
	return entries, err
}

func (r *syncRepo) Update(entry *model.PendingSync) error {
	return r.db.Save(entry).Error
}

func (r *syncRepo) Delete(id uint) error {
	return r.db.Delete(&model.PendingSync{}, id).Error
}

func (r *syncRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.PendingSync{}).Count(&n).Error
	return n, err
}

func (r *syncRepo) PendingRecordIDs() (map[string]struct{}, error) {
	var ids []string
	if err := r.db.Model(&model.PendingSync{}).Distinct().Pluck("record_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

func (r *syncRepo) GetState(key string) (string, error) {
	var st model.SyncState
	if err := r.db.First(&st, "key = ?", key).Error; err != nil {
		return "", translate(err)
	}
	return st.Value, nil
}

func (r *syncRepo) SetState(key, value string) error {
	st := model.SyncState{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&st).Error
}
