package service

import (
	"context"
	"fmt"
	"time"

	"github.com/minhpv/product-events/internal/event"
	"github.com/minhpv/product-events/internal/metric"
	"github.com/minhpv/product-events/internal/model"
	"github.com/minhpv/product-events/internal/publisher"
	"github.com/minhpv/product-events/internal/repository"
)

type CreateProductParams struct {
	Name  string
	Price float64
}

type ListProductsParams struct {
	Page  int
	Limit int
}

type ProductService interface {
	Create(ctx context.Context, params CreateProductParams) (model.Product, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, params ListProductsParams) (model.PaginatedProducts, error)
}

type productService struct {
	productRepo repository.ProductRepository
	publisher   publisher.Publisher
	metrics     *metric.ProductMetrics
}

func NewProductService(
	productRepo repository.ProductRepository,
	publisher publisher.Publisher,
	metrics *metric.ProductMetrics,
) ProductService {
	return &productService{
		productRepo: productRepo,
		publisher:   publisher,
		metrics:     metrics,
	}
}

// Create inserts the product and publishes a PRODUCT_CREATED event.
// The insert commits before the publish; a publish failure propagates but
// does not roll back the committed row.
func (s *productService) Create(ctx context.Context, params CreateProductParams) (model.Product, error) {
	product, err := s.productRepo.Create(ctx, params.Name, params.Price)
	if err != nil {
		return model.Product{}, fmt.Errorf("product repository create: %w", err)
	}

	s.metrics.Created.Inc()

	ev := event.NewProductCreated(product.ID, product.Name, product.Price, time.Now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		return model.Product{}, fmt.Errorf("publish product created event: %w", err)
	}

	return product, nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("product repository delete: %w", err)
	}

	s.metrics.Deleted.Inc()

	ev := event.NewProductDeleted(id, time.Now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		return fmt.Errorf("publish product deleted event: %w", err)
	}

	return nil
}

func (s *productService) List(ctx context.Context, params ListProductsParams) (model.PaginatedProducts, error) {
	offset := (params.Page - 1) * params.Limit

	products, total, err := s.productRepo.List(ctx, params.Limit, offset)
	if err != nil {
		return model.PaginatedProducts{}, fmt.Errorf("product repository list: %w", err)
	}

	return model.PaginatedProducts{
		Items: products,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
	}, nil
}
