package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/digital-market/internal/catalog/domain"
)

var tracer = otel.Tracer("catalog-repository")

// GormCatalogRepositoryWithTracing wraps GormCatalogRepository with tracing
type GormCatalogRepositoryWithTracing struct {
	*GormCatalogRepository
}

// NewGormCatalogRepositoryWithTracing creates a new repository with tracing
func NewGormCatalogRepositoryWithTracing(db *gorm.DB) *GormCatalogRepositoryWithTracing {
	return &GormCatalogRepositoryWithTracing{
		GormCatalogRepository: NewGormCatalogRepository(db),
	}
}

// FindProductBySlugWithContext looks up a product inside a span
func (r *GormCatalogRepositoryWithTracing) FindProductBySlugWithContext(ctx context.Context, slug string) (*domain.Product, error) {
	_, span := tracer.Start(ctx, "repository.FindProductBySlug",
		trace.WithAttributes(
			attribute.String("product.slug", slug),
		),
	)
	defer span.End()

	product, err := r.GormCatalogRepository.FindProductBySlug(slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("product.title", product.Title),
		attribute.Int("product.price", product.Price),
		attribute.Int("product.stock", product.Quantity),
	)
	return product, nil
}

// SearchProductsWithContext runs a title search inside a span
func (r *GormCatalogRepositoryWithTracing) SearchProductsWithContext(ctx context.Context, query string, limit, offset int) ([]domain.Product, error) {
	_, span := tracer.Start(ctx, "repository.SearchProducts",
		trace.WithAttributes(
			attribute.String("search.query", query),
		),
	)
	defer span.End()

	products, err := r.GormCatalogRepository.SearchProducts(query, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("search.results", len(products)))
	return products, nil
}

// ToggleFavoriteWithContext toggles a favorite inside a span
func (r *GormCatalogRepositoryWithTracing) ToggleFavoriteWithContext(ctx context.Context, userID, productID uint) (bool, error) {
	_, span := tracer.Start(ctx, "repository.ToggleFavorite",
		trace.WithAttributes(
			attribute.Int64("user.id", int64(userID)),
			attribute.Int64("product.id", int64(productID)),
		),
	)
	defer span.End()

	favorited, err := r.GormCatalogRepository.ToggleFavorite(userID, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("favorite.state", favorited))
	return favorited, nil
}
