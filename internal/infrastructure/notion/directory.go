package notion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rs/zerolog"

	"github.com/serraej/member-evaluations/internal/core/domain"
)

const pageSize = 100

var errMalformedCursor = errors.New("notion: has_more without next_cursor")

// Config names the database and the properties people are read from.
type Config struct {
	SecretKey        string
	DatabaseID       string
	NameProperty     string
	CategoryProperty string
	SectorProperty   string
}

// databaseQuerier is the slice of notionapi.DatabaseService the directory needs.
type databaseQuerier interface {
	Query(ctx context.Context, id notionapi.DatabaseID, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error)
}

// Directory reads people from a Notion database. It implements
// ports.DirectorySource and never writes to the workspace.
type Directory struct {
	db  databaseQuerier
	cfg Config
	log zerolog.Logger
}

func NewDirectory(cfg Config, log zerolog.Logger) *Directory {
	client := notionapi.NewClient(notionapi.Token(cfg.SecretKey))
	return newDirectory(client.Database, cfg, log)
}

func newDirectory(db databaseQuerier, cfg Config, log zerolog.Logger) *Directory {
	if cfg.NameProperty == "" {
		cfg.NameProperty = "Nome"
	}
	if cfg.CategoryProperty == "" {
		cfg.CategoryProperty = "Assessoria"
	}
	return &Directory{db: db, cfg: cfg, log: log}
}

// QueryPeople pages through the database. A non-empty category is pushed
// down as a multi-select "contains" filter.
func (d *Directory) QueryPeople(ctx context.Context, category string) ([]domain.Person, error) {
	req := &notionapi.DatabaseQueryRequest{PageSize: pageSize}
	if category != "" {
		req.Filter = &notionapi.PropertyFilter{
			Property:    d.cfg.CategoryProperty,
			MultiSelect: &notionapi.MultiSelectFilterCondition{Contains: category},
		}
	}

	people := make([]domain.Person, 0)
	for {
		resp, err := d.db.Query(ctx, notionapi.DatabaseID(d.cfg.DatabaseID), req)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, err)
		}

		for _, page := range resp.Results {
			p, ok := d.personFromPage(page)
			if !ok {
				d.log.Debug().Str("page_id", string(page.ID)).Msg("skipping page without name")
				continue
			}
			people = append(people, p)
		}

		if !resp.HasMore {
			break
		}
		if resp.NextCursor == "" {
			return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamUnavailable, errMalformedCursor)
		}
		req.StartCursor = resp.NextCursor
	}

	return people, nil
}

func (d *Directory) personFromPage(page notionapi.Page) (domain.Person, bool) {
	name := titleText(page.Properties[d.cfg.NameProperty])
	if name == "" {
		return domain.Person{}, false
	}

	p := domain.Person{ID: string(page.ID), DisplayName: name}
	if ms, ok := page.Properties[d.cfg.CategoryProperty].(*notionapi.MultiSelectProperty); ok {
		for _, opt := range ms.MultiSelect {
			if opt.Name != "" {
				p.Categories = append(p.Categories, opt.Name)
			}
		}
	}
	if len(p.Categories) == 0 && d.cfg.SectorProperty != "" {
		if sel, ok := page.Properties[d.cfg.SectorProperty].(*notionapi.SelectProperty); ok && sel.Select.Name != "" {
			p.Categories = []string{sel.Select.Name}
		}
	}
	return p, true
}

func titleText(prop notionapi.Property) string {
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok || len(title.Title) == 0 {
		return ""
	}
	var b strings.Builder
	for _, rt := range title.Title {
		b.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(b.String())
}
