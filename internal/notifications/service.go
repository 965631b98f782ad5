package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/db/models"
	pkgerrors "github.com/xcelerate-fit/xcelerate-backend/pkg/errors"
	"github.com/xcelerate-fit/xcelerate-backend/pkg/i18n"
)

const (
	maxImportIDs  = 500
	maxPreviewLen = 1000

	scopeSingle = "single"
	scopeAll    = "all"
	scopeImport = "import"
)

// Service derives header notifications and tracks which ones a user has read.
type Service interface {
	List(ctx context.Context, req Request) (*Result, error)
	Preview(ctx context.Context, req Request, activities []Activity) (*Result, error)
	MarkRead(ctx context.Context, req Request, notificationID string) (*Result, error)
	MarkAllRead(ctx context.Context, req Request) (*MarkAllResult, error)
	ImportReadState(ctx context.Context, userID uuid.UUID, ids []string) (int, error)
	Stream(ctx context.Context, req Request, emit func(*Result) error) error
}

// Request identifies whose notifications to derive and in which locale to render them.
type Request struct {
	UserID uuid.UUID
	Locale string
}

// MarkAllResult reports how many ids were newly marked plus the refreshed list.
type MarkAllResult struct {
	Marked        int     `json:"marked"`
	Notifications *Result `json:"notifications"`
}

// ActivitySource loads what a derivation needs from the activity store.
type ActivitySource interface {
	// ListSince returns the user's activities dated on or after since, and the count of
	// the user's older activities.
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.Activity, int64, error)
}

// Recorder receives derivation metrics.
type Recorder interface {
	ObserveDerivation(duration time.Duration)
	IncDerived(kind, category string)
	AddMarkedRead(scope string, count int)
}

// ServiceParams wires notification dependencies.
type ServiceParams struct {
	Activities      ActivitySource
	ReadStore       ReadStore
	Deriver         *Deriver
	Translator      *i18n.Translator
	Metrics         Recorder
	RefreshInterval time.Duration
	Now             func() time.Time
}

type service struct {
	activities      ActivitySource
	readStore       ReadStore
	deriver         *Deriver
	translator      *i18n.Translator
	metrics         Recorder
	refreshInterval time.Duration
	now             func() time.Time
}

// NewService wires notifications dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Activities == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "activity source required")
	}
	if params.ReadStore == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "read store required")
	}
	if params.Deriver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "deriver required")
	}
	if params.Translator == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "translator required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	refresh := params.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}
	return &service{
		activities:      params.Activities,
		readStore:       params.ReadStore,
		deriver:         params.Deriver,
		translator:      params.Translator,
		metrics:         params.Metrics,
		refreshInterval: refresh,
		now:             now,
	}, nil
}

func (s *service) List(ctx context.Context, req Request) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	read, err := s.loadReadSet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.deriveStored(ctx, req, read)
}

func (s *service) Preview(ctx context.Context, req Request, activities []Activity) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if len(activities) > maxPreviewLen {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "too many activities")
	}
	read, err := s.loadReadSet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	return s.derive(req, Input{Now: s.now(), Activities: activities, Read: read}), nil
}

func (s *service) MarkRead(ctx context.Context, req Request, notificationID string) (*Result, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if !ValidID(notificationID) {
		return nil, pkgerrors.Field("notificationId", "unknown notification id")
	}
	added, err := s.readStore.Save(ctx, req.UserID.String(), notificationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save read notification")
	}
	s.recordMarked(scopeSingle, added)
	return s.List(ctx, req)
}

func (s *service) MarkAllRead(ctx context.Context, req Request) (*MarkAllResult, error) {
	if req.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	read, err := s.loadReadSet(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	result, err := s.deriveStored(ctx, req, read)
	if err != nil {
		return nil, err
	}

	ids := result.IDs()
	added, err := s.readStore.Save(ctx, req.UserID.String(), ids...)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save read notifications")
	}
	s.recordMarked(scopeAll, added)

	read.Add(ids...)
	result.applyReadSet(read)
	return &MarkAllResult{Marked: added, Notifications: result}, nil
}

func (s *service) ImportReadState(ctx context.Context, userID uuid.UUID, ids []string) (int, error) {
	if userID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeUnauthorized, "user id required")
	}
	if len(ids) > maxImportIDs {
		return 0, pkgerrors.Field("ids", "too many ids")
	}
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if ValidID(id) {
			valid = append(valid, id)
		}
	}
	added, err := s.readStore.Save(ctx, userID.String(), valid...)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "import read notifications")
	}
	s.recordMarked(scopeImport, added)
	return added, nil
}

func (s *service) loadReadSet(ctx context.Context, userID uuid.UUID) (ReadSet, error) {
	read, err := s.readStore.Load(ctx, userID.String())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load read notifications")
	}
	return read, nil
}

func (s *service) deriveStored(ctx context.Context, req Request, read ReadSet) (*Result, error) {
	now := s.now()
	rows, older, err := s.activities.ListSince(ctx, req.UserID, s.deriver.LookbackStart(now))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load activities")
	}
	activities := make([]Activity, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, FromModel(row))
	}
	return s.derive(req, Input{Now: now, Activities: activities, Older: int(older), Read: read}), nil
}

func (s *service) derive(req Request, in Input) *Result {
	started := time.Now()
	result := s.deriver.Derive(in)
	result.Localize(s.translator.Localizer(req.Locale), s.deriver.Location())
	if s.metrics != nil {
		s.metrics.ObserveDerivation(time.Since(started))
		for _, item := range result.Items {
			s.metrics.IncDerived(item.Kind.String(), item.Category.String())
		}
	}
	return result
}

func (s *service) recordMarked(scope string, count int) {
	if s.metrics != nil && count > 0 {
		s.metrics.AddMarkedRead(scope, count)
	}
}

// FromModel converts a stored activity into deriver input.
func FromModel(row models.Activity) Activity {
	return Activity{
		Date:         row.Date.Format(dateLayout),
		Duration:     row.Duration,
		ActivityType: row.ActivityType,
	}
}
