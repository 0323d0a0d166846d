package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"babyboss-sales/internal/cache"
	"babyboss-sales/internal/events"
	"babyboss-sales/internal/model"
	"babyboss-sales/internal/repository"
	"babyboss-sales/internal/sheets"
)

const (
	flushBatch = 50
	maxBackoff = time.Hour
)

// SyncOutcome says what became of a local mutation's sheet push.
type SyncOutcome string

const (
	// SyncSent means the sheet accepted the record.
	SyncSent SyncOutcome = "synced"
	// SyncQueued means the record waits in the outbox for a later flush.
	SyncQueued SyncOutcome = "queued"
	// SyncDisabled means no sheet is configured; the record stays local.
	SyncDisabled SyncOutcome = "disabled"
	// SyncDropped means the push failed and could not be queued either.
	SyncDropped SyncOutcome = "dropped"
)

// Sent reports whether the sheet already has the record.
func (o SyncOutcome) Sent() bool { return o == SyncSent }

// Pusher sends a local mutation to the sheet. A rejected push is kept in
// the outbox for retry.
type Pusher interface {
	Push(ctx context.Context, action, recordID string, payload any) SyncOutcome
}

// Puller refreshes the local store from the sheet.
type Puller interface {
	Pull(ctx context.Context) (*PullResult, error)
}

type SyncService interface {
	Pusher
	Puller
	Flush(ctx context.Context) (*FlushResult, error)
	Retry() (int, error)
	Status() (*SyncStatus, error)
	Run(ctx context.Context)
}

type PullResult struct {
	Users     int       `json:"users"`
	Customers int       `json:"customers"`
	Orders    int       `json:"orders"`
	Skipped   int       `json:"skipped"`
	At        time.Time `json:"at"`
}

type FlushResult struct {
	Delivered int `json:"delivered"`
	Failed    int `json:"failed"`
}

type SyncStatus struct {
	Enabled    bool                `json:"enabled"`
	LastPullAt *time.Time          `json:"lastPullAt"`
	Pending    int                 `json:"pending"`
	Exhausted  int                 `json:"exhausted"`
	Entries    []model.PendingSync `json:"entries"`
}

type SyncConfig struct {
	Enabled     bool
	Interval    time.Duration
	MaxAttempts int
	// Location is the business time zone sheet timestamps are read in.
	Location *time.Location
}

type syncService struct {
	api          sheets.API
	cfg          SyncConfig
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	syncRepo     repository.SyncRepository
	applier      repository.PullApplier
	reports      cache.ReportCache
	notifier     events.Notifier
	log          *zap.Logger
	now          func() time.Time
}

func NewSyncService(
	api sheets.API,
	cfg SyncConfig,
	userRepo repository.UserRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	syncRepo repository.SyncRepository,
	applier repository.PullApplier,
	reports cache.ReportCache,
	notifier events.Notifier,
	log *zap.Logger,
) SyncService {
	if cfg.Location == nil {
		cfg.Location = time.FixedZone("ICT", 7*60*60)
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &syncService{
		api:          api,
		cfg:          cfg,
		userRepo:     userRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		syncRepo:     syncRepo,
		applier:      applier,
		reports:      reports,
		notifier:     notifier,
		log:          log,
		now:          time.Now,
	}
}

// Pull copies the sheet into the local store. Records with an unsent local
// change are left alone so the outbox can still deliver them.
func (s *syncService) Pull(ctx context.Context) (*PullResult, error) {
	if !s.cfg.Enabled {
		return nil, ErrSyncDisabled
	}

	// 1. Fetch everything before touching the store
	var snap sheets.Snapshot
	if err := s.api.Call(ctx, model.ActionGetAllData, nil, &snap); err != nil {
		return nil, err
	}

	pending, err := s.syncRepo.PendingRecordIDs()
	if err != nil {
		return nil, err
	}
	res := &PullResult{At: s.now()}
	skip := func(id string) bool {
		if id == "" {
			res.Skipped++
			return true
		}
		if _, ok := pending[id]; ok {
			res.Skipped++
			return true
		}
		return false
	}

	batch := &repository.PullBatch{PulledAt: res.At.UTC().Format(time.RFC3339)}

	// 2. Users
	for _, rec := range snap.Users {
		u := rec.ToModel()
		if skip(u.ID) || u.Username == "" {
			continue
		}
		merged, ok := s.mergeUser(u, string(rec.Password))
		if !ok {
			res.Skipped++
			continue
		}
		batch.Users = append(batch.Users, merged)
	}

	// 3. Customers
	for _, rec := range snap.Customers {
		c := rec.ToModel()
		if skip(c.ID) {
			continue
		}
		if local, err := s.customerRepo.FindByID(c.ID); err == nil && c.CreatedAt.IsZero() {
			c.CreatedAt = local.CreatedAt
		}
		batch.Customers = append(batch.Customers, c)
	}

	// 4. Orders
	for _, rec := range snap.Orders {
		o := rec.ToModel(s.cfg.Location)
		if skip(o.ID) {
			continue
		}
		batch.Orders = append(batch.Orders, o)
	}

	// 5. Store everything and the pull time together
	if err := s.applier.ApplyPull(batch); err != nil {
		return nil, fmt.Errorf("apply pull: %w", err)
	}
	res.Users = len(batch.Users)
	res.Customers = len(batch.Customers)
	res.Orders = len(batch.Orders)

	invalidateReports(ctx, s.reports, s.log)
	s.notifier.Notify(events.SyncCompleted, res)
	s.log.Info("pulled sheet",
		zap.Int("users", res.Users),
		zap.Int("customers", res.Customers),
		zap.Int("orders", res.Orders),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

// mergeUser keeps the local password hash and session fields of a known
// user. A sheet password is only hashed for users without a local one.
func (s *syncService) mergeUser(remote model.User, plain string) (model.User, bool) {
	if local, err := s.userRepo.FindByID(remote.ID); err == nil {
		remote.Password = local.Password
		remote.TokenVersion = local.TokenVersion
		remote.LastSeenAt = local.LastSeenAt
		remote.CreatedAt = local.CreatedAt
		remote.CreatedBy = local.CreatedBy
		if remote.Branch == "" {
			remote.Branch = local.Branch
		}
	} else if other, err := s.userRepo.FindByUsername(remote.Username); err == nil && other.ID != remote.ID {
		s.log.Warn("skip sheet user with a taken username",
			zap.String("id", remote.ID),
			zap.String("username", remote.Username),
		)
		return remote, false
	}

	if remote.Password == "" && plain != "" {
		if err := remote.SetPassword(plain); err != nil {
			s.log.Warn("hash sheet password", zap.String("id", remote.ID), zap.Error(err))
		}
	}
	return remote, true
}

func (s *syncService) Push(ctx context.Context, action, recordID string, payload any) SyncOutcome {
	if !s.cfg.Enabled {
		return SyncDisabled
	}

	body, err := json.Marshal(payload)
	if err != nil {
		s.log.Error("marshal push payload", zap.String("action", action), zap.Error(err))
		return SyncDropped
	}

	entry := &model.PendingSync{
		Action:   action,
		RecordID: recordID,
		Payload:  body,
	}

	// An older change of the same record is still queued; keep the order.
	pending, err := s.syncRepo.PendingRecordIDs()
	if err == nil {
		if _, ok := pending[recordID]; ok {
			entry.NextAttemptAt = s.now()
			return s.enqueue(entry)
		}
	}

	if err := s.api.Call(ctx, action, json.RawMessage(body), nil); err != nil {
		s.log.Warn("push to sheet failed, queued",
			zap.String("action", action),
			zap.String("record_id", recordID),
			zap.Error(err),
		)
		entry.Attempts = 1
		entry.LastError = err.Error()
		entry.NextAttemptAt = s.now().Add(s.backoff(1))
		return s.enqueue(entry)
	}
	return SyncSent
}

func (s *syncService) enqueue(entry *model.PendingSync) SyncOutcome {
	if err := s.syncRepo.Enqueue(entry); err != nil {
		s.log.Error("queue sheet push",
			zap.String("action", entry.Action),
			zap.String("record_id", entry.RecordID),
			zap.Error(err),
		)
		return SyncDropped
	}
	return SyncQueued
}

// backoff doubles the sync interval per attempt, capped at an hour.
func (s *syncService) backoff(attempts int) time.Duration {
	d := s.cfg.Interval
	for i := 1; i < attempts && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// Flush retries due outbox entries in queue order. A record whose oldest
// entry is not due, failed again or gave up holds back its later entries.
func (s *syncService) Flush(ctx context.Context) (*FlushResult, error) {
	res := &FlushResult{}
	if !s.cfg.Enabled {
		return res, ErrSyncDisabled
	}

	entries, err := s.syncRepo.All()
	if err != nil {
		return nil, err
	}

	now := s.now()
	blocked := make(map[string]bool)
	attempted := 0
	for i := range entries {
		entry := &entries[i]
		if blocked[entry.RecordID] {
			continue
		}
		if entry.Attempts >= s.cfg.MaxAttempts || entry.NextAttemptAt.After(now) {
			blocked[entry.RecordID] = true
			continue
		}
		if attempted == flushBatch {
			break
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		attempted++

		err := s.api.Call(ctx, entry.Action, json.RawMessage(entry.Payload), nil)
		if err == nil {
			if err := s.syncRepo.Delete(entry.ID); err != nil {
				return res, err
			}
			res.Delivered++
			continue
		}

		blocked[entry.RecordID] = true
		res.Failed++
		entry.Attempts++
		entry.LastError = err.Error()
		entry.NextAttemptAt = now.Add(s.backoff(entry.Attempts))
		if entry.Attempts >= s.cfg.MaxAttempts {
			s.log.Error("sheet push gave up",
				zap.Uint("id", entry.ID),
				zap.String("action", entry.Action),
				zap.String("record_id", entry.RecordID),
				zap.Int("attempts", entry.Attempts),
			)
		}
		if err := s.syncRepo.Update(entry); err != nil {
			return res, err
		}
	}

	if res.Delivered > 0 || res.Failed > 0 {
		s.log.Info("flushed sheet outbox", zap.Int("delivered", res.Delivered), zap.Int("failed", res.Failed))
	}
	return res, nil
}

// Retry re-arms entries that used up their attempts.
func (s *syncService) Retry() (int, error) {
	entries, err := s.syncRepo.All()
	if err != nil {
		return 0, err
	}
	n := 0
	for i := range entries {
		if entries[i].Attempts < s.cfg.MaxAttempts {
			continue
		}
		entries[i].Attempts = 0
		entries[i].NextAttemptAt = s.now()
		if err := s.syncRepo.Update(&entries[i]); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *syncService) Status() (*SyncStatus, error) {
	entries, err := s.syncRepo.All()
	if err != nil {
		return nil, err
	}
	st := &SyncStatus{
		Enabled: s.cfg.Enabled,
		Pending: len(entries),
		Entries: entries,
	}
	for _, e := range entries {
		if e.Attempts >= s.cfg.MaxAttempts {
			st.Exhausted++
		}
	}

	last, err := s.syncRepo.GetState(model.SyncStateLastPull)
	switch {
	case err == nil:
		if t, perr := time.Parse(time.RFC3339, last); perr == nil {
			st.LastPullAt = &t
		}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return st, nil
}

// Run flushes the outbox and refreshes from the sheet every interval until
// ctx is cancelled.
func (s *syncService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Flush(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("flush sheet outbox", zap.Error(err))
			}
			if _, err := s.Pull(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("pull sheet", zap.Error(err))
			}
		}
	}
}
