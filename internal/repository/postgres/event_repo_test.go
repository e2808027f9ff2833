package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"micrositebuilder/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "owner_id", "public_slug", "event_type", "template_id", "name", "date",
		"venue", "message", "details", "cover_image_url", "gallery_images",
		"rsvp_enabled", "contributions_enabled", "customization", "created_at", "updated_at",
	})
}

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			event: &domain.Event{
				OwnerID:    "user-uuid-1",
				EventType:  domain.EventTypeWedding,
				TemplateID: "tpl-uuid-1",
				Name:       "Ada & Obi",
				CreatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
				UpdatedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(owner_id, event_type, template_id, name, date, venue, message`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("ev-uuid-1"))
			},
			wantID:  "ev-uuid-1",
			wantErr: false,
		},
		{
			name: "db error",
			event: &domain.Event{
				OwnerID:    "user-1",
				EventType:  domain.EventTypeBirthday,
				TemplateID: "tpl-1",
				CreatedAt:  time.Now(),
				UpdatedAt:  time.Now(),
			},
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(sql.ErrConnDone)
			},
			wantID:  "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		want    *domain.Event
		wantErr error
	}{
		{
			name: "success with json columns",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, owner_id, public_slug, event_type, template_id, name, date`).
					WithArgs("ev-1").
					WillReturnRows(eventRows().AddRow(
						"ev-1", "user-1", "ada-obi-1a2b3c4d", "wedding", "tpl-1", "Ada & Obi", nil,
						"Lagos", "Join us!", []byte(`{"bank_name":"GTB"}`), "https://cdn/x/cover.jpg",
						"{https://cdn/x/a.jpg,https://cdn/x/b.jpg}",
						true, true, []byte(`{"selected_color_scheme":"blush"}`), created, created,
					))
			},
			want: &domain.Event{
				ID:                   "ev-1",
				OwnerID:              "user-1",
				PublicSlug:           "ada-obi-1a2b3c4d",
				EventType:            domain.EventTypeWedding,
				TemplateID:           "tpl-1",
				Name:                 "Ada & Obi",
				Venue:                "Lagos",
				Message:              "Join us!",
				Details:              map[string]string{"bank_name": "GTB"},
				CoverImageURL:        "https://cdn/x/cover.jpg",
				GalleryImages:        []string{"https://cdn/x/a.jpg", "https://cdn/x/b.jpg"},
				RSVPEnabled:          true,
				ContributionsEnabled: true,
				Customization:        domain.Customization{SelectedColorScheme: "blush"},
				CreatedAt:            created,
				UpdatedAt:            created,
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT id, owner_id, public_slug, event_type, template_id, name, date`).
					WithArgs("ev-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_SetPublicSlug(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET public_slug = \$2`).
					WithArgs("ev-1", "ada-obi-1a2b3c4d").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "slug collision",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET public_slug = \$2`).
					WithArgs("ev-1", "ada-obi-1a2b3c4d").
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "event missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE events SET public_slug = \$2`).
					WithArgs("ev-1", "ada-obi-1a2b3c4d").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.SetPublicSlug(ctx, "ev-1", "ada-obi-1a2b3c4d")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_Update_WritesFullGalleryArray(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	event := &domain.Event{
		ID:            "ev-1",
		Name:          "Ada & Obi",
		GalleryImages: []string{"https://cdn/x/a.jpg", "https://cdn/x/b.jpg", "https://cdn/x/c.jpg"},
	}
	mock.ExpectExec(`UPDATE events`).
		WithArgs("ev-1", "Ada & Obi", nil, "", "", []byte(`null`), "",
			pq.Array(event.GalleryImages), false, false, []byte(`{}`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewEventRepository(db)
	require.NoError(t, repo.Update(ctx, event))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		id      string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			id:   "ev-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-missing").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			id:   "ev-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
					WithArgs("ev-1").
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Delete(ctx, tt.id)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
