package history

import (
	"context"
	"time"

	postgrest "github.com/supabase-community/postgrest-go"

	"reelarchitect/models"
)

// ScriptsTable holds every user's history rows; app_id and user_id scope them.
// Row-level security on the table restricts each row to its owner.
const ScriptsTable = "scripts"

// TableClient is the slice of *supabase.Client the store needs.
type TableClient interface {
	From(table string) *postgrest.QueryBuilder
}

// SupabaseStore persists history in a Supabase (PostgREST) table. The client
// should carry the signed-in user's access token so row-level security applies.
type SupabaseStore struct {
	client TableClient
}

// NewSupabaseStore creates a SupabaseStore on top of an authenticated client.
func NewSupabaseStore(client TableClient) *SupabaseStore {
	return &SupabaseStore{client: client}
}

// Expired forwards to the client when its token can lapse.
func (s *SupabaseStore) Expired() bool {
	if e, ok := s.client.(Expirer); ok {
		return e.Expired()
	}
	return false
}

// scriptRow is the database shape of a HistoryEntry.
type scriptRow struct {
	ID          string                  `json:"id,omitempty"`
	AppID       string                  `json:"app_id"`
	UserID      string                  `json:"user_id"`
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Result      models.GenerationResult `json:"result"`
	CreatedAt   *time.Time              `json:"created_at,omitempty"` // Defaults to now() in the database
}

func (r scriptRow) entry() models.HistoryEntry {
	return models.HistoryEntry{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Result:      r.Result,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *SupabaseStore) Append(ctx context.Context, scope Scope, entry models.HistoryEntry) (models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return models.HistoryEntry{}, storeErr(opAppend, err)
	}
	if !scope.Valid() {
		return models.HistoryEntry{}, storeErr(opAppend, ErrInvalidScope)
	}

	// ID and created_at are left out so the database assigns them.
	row := scriptRow{
		AppID:       scope.AppID,
		UserID:      scope.UserID,
		Title:       entry.Title,
		Description: entry.Description,
		Result:      entry.Result,
	}

	var inserted []scriptRow
	_, err := s.client.From(ScriptsTable).
		Insert(row, false, "", "representation", "").
		ExecuteTo(&inserted)
	if err != nil {
		return models.HistoryEntry{}, storeErr(opAppend, err)
	}
	if len(inserted) == 0 {
		return models.HistoryEntry{}, storeErr(opAppend, errEmptyInsert)
	}
	return inserted[0].entry(), nil
}

func (s *SupabaseStore) List(ctx context.Context, scope Scope) ([]models.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeErr(opList, err)
	}
	if !scope.Valid() {
		return nil, storeErr(opList, ErrInvalidScope)
	}

	// No ordering server side; subscribers sort the full collection themselves.
	var rows []scriptRow
	_, err := s.client.From(ScriptsTable).
		Select("*", "", false).
		Eq("app_id", scope.AppID).
		Eq("user_id", scope.UserID).
		ExecuteTo(&rows)
	if err != nil {
		return nil, storeErr(opList, err)
	}

	entries := make([]models.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (s *SupabaseStore) Delete(ctx context.Context, scope Scope, id string) error {
	if err := ctx.Err(); err != nil {
		return storeErr(opDelete, err)
	}
	if !scope.Valid() {
		return storeErr(opDelete, ErrInvalidScope)
	}

	// A filter matching no rows is still a 2xx, so deleting twice is harmless.
	_, _, err := s.client.From(ScriptsTable).
		Delete("minimal", "").
		Eq("id", id).
		Eq("app_id", scope.AppID).
		Eq("user_id", scope.UserID).
		Execute()
	if err != nil {
		return storeErr(opDelete, err)
	}
	return nil
}
