package sitemap

import (
	"context"
	"time"

	"github.com/propertyscope/content-engine/internal/models"
	"github.com/propertyscope/content-engine/internal/storage"
)

// Entries published within this window get the isNew priority boost.
const newWindow = 14 * 24 * time.Hour

// StoreSources returns the standard dynamic sources backed by the store:
// listings, articles, news, neighborhoods, and property-type area pages.
func StoreSources(store storage.Store) []Source {
	return []Source{
		&ListingSource{store: store},
		&ContentSource{store: store, contentType: models.ContentTypeArticle, pathPrefix: "/blog/", route: RouteArticle},
		&ContentSource{store: store, contentType: models.ContentTypeNews, pathPrefix: "/news/", route: RouteNews},
		&NeighborhoodSource{store: store},
		&PropertyTypeSource{store: store},
	}
}

type ListingSource struct {
	store storage.Store
}

func (s *ListingSource) Name() string { return "listings" }

func (s *ListingSource) Fetch(ctx context.Context) ([]Record, error) {
	listings, err := s.store.ListPublishedListings(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(listings))
	for _, l := range listings {
		records = append(records, Record{
			Path:         "/properties/" + l.Slug,
			Route:        RouteListing,
			Featured:     l.Featured,
			IsNew:        isNew(l.PublishedAt),
			LastModified: l.LastModified(),
		})
	}
	return records, nil
}

// ContentSource emits published articles or news posts.
type ContentSource struct {
	store       storage.Store
	contentType models.ContentType
	pathPrefix  string
	route       RouteType
}

func (s *ContentSource) Name() string { return string(s.contentType) + "s" }

func (s *ContentSource) Fetch(ctx context.Context) ([]Record, error) {
	published := true
	items, err := s.store.ListContentItems(ctx, storage.ContentFilter{
		Type:      &s.contentType,
		Published: &published,
	})
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, Record{
			Path:         s.pathPrefix + item.Slug,
			Route:        s.route,
			Featured:     item.Featured,
			IsNew:        isNew(item.PublishedAt),
			LastModified: item.LastModified(),
		})
	}
	return records, nil
}

type NeighborhoodSource struct {
	store storage.Store
}

func (s *NeighborhoodSource) Name() string { return "neighborhoods" }

func (s *NeighborhoodSource) Fetch(ctx context.Context) ([]Record, error) {
	neighborhoods, err := s.store.ListNeighborhoods(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(neighborhoods))
	for _, n := range neighborhoods {
		records = append(records, Record{
			Path:         "/areas/" + n.Slug,
			Route:        RouteNeighborhood,
			LastModified: n.UpdatedAt,
		})
	}
	return records, nil
}

// PropertyTypeSource emits the programmatic property-type x area landing
// pages (e.g. /properties/apartment/marina-district).
type PropertyTypeSource struct {
	store storage.Store
}

func (s *PropertyTypeSource) Name() string { return "property_types" }

func (s *PropertyTypeSource) Fetch(ctx context.Context) ([]Record, error) {
	types, err := s.store.ListPropertyTypes(ctx)
	if err != nil {
		return nil, err
	}
	neighborhoods, err := s.store.ListNeighborhoods(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(types)*(len(neighborhoods)+1))
	for _, pt := range types {
		records = append(records, Record{
			Path:  "/properties/" + pt.Slug,
			Route: RouteHub,
		})
		for _, n := range neighborhoods {
			records = append(records, Record{
				Path:  "/properties/" + pt.Slug + "/" + n.Slug,
				Route: RouteHub,
			})
		}
	}
	return records, nil
}

func isNew(publishedAt *time.Time) bool {
	return publishedAt != nil && time.Since(*publishedAt) <= newWindow
}
