package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quotations/go_backend/internal/core/errx"
	"quotations/go_backend/internal/domain/catalog"
	"quotations/go_backend/internal/domain/client"
	"quotations/go_backend/internal/domain/paging"
	"quotations/go_backend/internal/domain/project"
	"quotations/go_backend/internal/domain/quote/pdf"
	"quotations/go_backend/internal/domain/settings"
)

type memStore struct {
	rows map[string]Quotation
	seq  int
}

func newMemStore() *memStore { return &memStore{rows: map[string]Quotation{}} }

func (m *memStore) List(ctx context.Context, p paging.Params) ([]Quotation, int, error) {
	var out []Quotation
	for _, q := range m.rows {
		if p.Status != "" && string(q.Status) != p.Status {
			continue
		}
		out = append(out, q)
	}
	return out, len(out), nil
}

func (m *memStore) Get(ctx context.Context, id string) (*Quotation, error) {
	q, ok := m.rows[id]
	if !ok {
		return nil, errx.NotFound("quotation")
	}
	q.Items = append([]Item(nil), q.Items...)
	return &q, nil
}

func (m *memStore) Create(ctx context.Context, q *Quotation) error {
	m.seq++
	q.ID = fmt.Sprintf("q%d", m.seq)
	m.rows[q.ID] = *q
	return nil
}

func (m *memStore) Update(ctx context.Context, q *Quotation) error {
	m.rows[q.ID] = *q
	return nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

type memSeq map[string]int64

func (m memSeq) Next(ctx context.Context, key string) (int64, error) {
	m[key]++
	return m[key], nil
}

type lookup[T any] map[string]T

func (l lookup[T]) Get(ctx context.Context, id string) (*T, error) {
	v, ok := l[id]
	if !ok {
		return nil, errx.NotFound("record")
	}
	return &v, nil
}

type fixedSettings struct{ cfg settings.Configuration }

func (f fixedSettings) Get(ctx context.Context) (*settings.Configuration, error) {
	c := f.cfg
	return &c, nil
}

type fakeRenderer struct{ last pdf.Document }

func (f *fakeRenderer) Generate(doc pdf.Document) ([]byte, error) {
	f.last = doc
	return []byte("%PDF-1.3 " + doc.Number), nil
}

type published struct {
	topic string
	key   string
	event Event
}

type fakePublisher struct {
	events []published
	fail   bool
}

func (f *fakePublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.events = append(f.events, published{topic: topic, key: key, event: payload.(Event)})
	return nil
}

func (f *fakePublisher) topics() []string {
	out := make([]string, len(f.events))
	for i, e := range f.events {
		out[i] = e.topic
	}
	return out
}

type fakeNotifier struct {
	texts []string
	docs  []string
}

func (f *fakeNotifier) SendText(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeNotifier) SendDocument(ctx context.Context, filename string, data []byte, caption string) error {
	f.docs = append(f.docs, filename)
	return nil
}

type fixture struct {
	svc       *Service
	store     *memStore
	seq       memSeq
	renderer  *fakeRenderer
	publisher *fakePublisher
	notifier  *fakeNotifier
}

var fixedNow = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

func newFixture() *fixture {
	cfg := settings.Default()
	cfg.Business.Name = "Acme Events"
	cfg.Quotation.Terms = "Payment within 14 days"
	f := &fixture{
		store:     newMemStore(),
		seq:       memSeq{},
		renderer:  &fakeRenderer{},
		publisher: &fakePublisher{},
		notifier:  &fakeNotifier{},
	}
	f.svc = NewService(f.store, Deps{
		Sequencer: f.seq,
		Clients:   lookup[client.Client]{"c1": {ID: "c1", Name: "Jane Doe", Company: "Doe Ltd"}},
		Products: lookup[catalog.Product]{
			"p1": {ID: "p1", Name: "Chair", SizeID: "s1"},
			"p2": {ID: "p2", Name: "Table"},
		},
		Sizes:     lookup[catalog.Size]{"s1": {ID: "s1", Name: "Large"}},
		Projects:  lookup[project.Project]{"pr1": {ID: "pr1", Name: "Wedding"}},
		Settings:  fixedSettings{cfg: cfg},
		Renderer:  f.renderer,
		Publisher: f.publisher,
		Notifier:  f.notifier,
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}
