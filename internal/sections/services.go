package sections

import (
	"context"

	"go.uber.org/zap"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/observability"
)

// ServiceLister is the content read the services section needs.
type ServiceLister interface {
	ListServices(ctx context.Context, q cms.ServiceQuery) ([]cms.Service, error)
	ListCategories(ctx context.Context) ([]cms.ServiceCategory, error)
}

// ServicesOptions shape the services fetch.
type ServicesOptions struct {
	Query          cms.ServiceQuery
	LoadCategories bool // label raw category ids from service_categories
}

// ServiceGroup is one category block of the pricelist.
type ServiceGroup struct {
	Key      string
	Label    i18n.Localized // zero when only a raw key is known
	Services []cms.Service
}

type servicesData struct {
	services   []cms.Service
	categories map[string]cms.ServiceCategory
}

// Services backs the pricelist section.
type Services struct {
	src  ServiceLister
	opts ServicesOptions
	l    loader[servicesData]
}

// ServicesSnapshot is the rendered view of Services.
type ServicesSnapshot struct {
	State    State
	Services []cms.Service
	Groups   []ServiceGroup
	Err      error
}

func NewServices(src ServiceLister, opts ServicesOptions) *Services {
	return &Services{src: src, opts: opts}
}

// Load activates the section. It fetches only from Idle and returns the
// resulting state. A failed category read only loses the labels.
func (s *Services) Load(ctx context.Context) State {
	gen, ok := s.l.begin()
	if !ok {
		state, _, _ := s.l.snapshot()
		return state
	}
	logger := observability.FromContext(ctx)
	var data servicesData
	services, err := s.src.ListServices(ctx, s.opts.Query)
	switch {
	case err != nil && cms.IsUnexpectedShape(err):
		logger.Warn("services: unexpected payload", zap.Error(err))
		err = nil
	case err != nil:
		logger.Error("services: load failed", zap.Error(err))
	default:
		data.services = services
	}
	if err == nil && s.opts.LoadCategories && len(data.services) > 0 {
		categories, cerr := s.src.ListCategories(ctx)
		if cerr != nil {
			logger.Warn("services: categories unavailable", zap.Error(cerr))
		}
		data.categories = make(map[string]cms.ServiceCategory, len(categories))
		for _, c := range categories {
			data.categories[cms.CategoryExpanded(c).Key()] = c
		}
	}
	s.l.finish(gen, data, err)
	state, _, _ := s.l.snapshot()
	return state
}

// Deactivate discards any in-flight result and returns the section to Idle.
func (s *Services) Deactivate() { s.l.deactivate() }

func (s *Services) Snapshot() ServicesSnapshot {
	state, data, err := s.l.snapshot()
	groups := GroupByCategory(data.services)
	for i := range groups {
		if groups[i].Label.IsZero() {
			if c, ok := data.categories[groups[i].Key]; ok {
				groups[i].Label = c.Title
			}
		}
	}
	return ServicesSnapshot{State: state, Services: data.services, Groups: groups, Err: err}
}

// GroupByCategory partitions services by category key. Groups follow the
// first-seen order of their keys and keep services in input order. Services
// without a category share the "" group.
func GroupByCategory(services []cms.Service) []ServiceGroup {
	if len(services) == 0 {
		return nil
	}
	index := map[string]int{}
	var groups []ServiceGroup
	for _, svc := range services {
		key := svc.Category.Key()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, ServiceGroup{Key: key})
		}
		if groups[i].Label.IsZero() {
			if c, ok := svc.Category.Expanded(); ok {
				groups[i].Label = c.Title
			}
		}
		groups[i].Services = append(groups[i].Services, svc)
	}
	return groups
}
