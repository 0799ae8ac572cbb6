package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/detoxmine/detoxmine/internal/model"
)

type EventRepository interface {
	Create(event *model.Event) error
	BySubject(subject string) ([]*model.Event, error)
}

type eventRepository struct {
	ext sqlx.Ext
}

func NewEventRepository(ext sqlx.Ext) EventRepository {
	return &eventRepository{ext: ext}
}

func (r *eventRepository) Create(event *model.Event) error {
	query := `INSERT INTO events (id, kind, subject, payload, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.ext.Exec(query,
		event.ID,
		event.Kind,
		event.Subject,
		event.Payload,
		event.CreatedAt,
	)

	return err
}

func (r *eventRepository) BySubject(subject string) ([]*model.Event, error) {
	var events []*model.Event
	query := `SELECT * FROM events WHERE subject = $1 ORDER BY created_at ASC`

	err := sqlx.Select(r.ext, &events, query, subject)
	if err != nil {
		return nil, err
	}

	return events, nil
}
