// Package mongostore keeps categories and products in MongoDB collections.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/specscart/catalog-api/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	categoriesCollection = "categories"
	productsCollection   = "products"
)

type Store struct {
	client     *mongo.Client
	categories *mongo.Collection
	products   *mongo.Collection
}

// Connect dials uri and checks the primary is reachable.
func Connect(ctx context.Context, uri, database string, timeout time.Duration) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	s := New(client, database)
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return s, nil
}

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:     client,
		categories: db.Collection(categoriesCollection),
		products:   db.Collection(productsCollection),
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Disconnect(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique indexes the catalog relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if _, err := s.categories.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return fmt.Errorf("category indexes: %w", err)
	}
	if _, err := s.products.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "productKey", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "brand", Value: 1}}},
	}); err != nil {
		return fmt.Errorf("product indexes: %w", err)
	}
	return nil
}

// --- categories ---

func (s *Store) GetAllCategories(ctx context.Context) ([]models.Category, error) {
	return s.findCategories(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (s *Store) GetCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var doc categoryDocument
	if err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) FindCategoriesByName(ctx context.Context, names []string) ([]models.Category, error) {
	if len(names) == 0 {
		return []models.Category{}, nil
	}
	return s.findCategories(ctx, bson.M{"name": bson.M{"$in": names}})
}

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if _, err := s.categories.InsertOne(ctx, fromCategory(*category)); err != nil {
		return translateError("create category", err)
	}
	return nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, patch models.CategoryPatch) (*models.Category, error) {
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if len(set) == 0 {
		return s.GetCategoryByID(ctx, id)
	}

	var doc categoryDocument
	err := s.categories.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrCategoryNotFound
		}
		return nil, translateError("update category", err)
	}
	c := doc.model()
	return &c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrCategoryNotFound
	}
	return nil
}

func (s *Store) findCategories(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Category, error) {
	cur, err := s.categories.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	var docs []categoryDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	categories := make([]models.Category, len(docs))
	for i, d := range docs {
		categories[i] = d.model()
	}
	return categories, nil
}

// --- products ---

func (s *Store) GetFilteredProducts(ctx context.Context, offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error) {
	if filters.MatchesNothing() {
		return []models.Product{}, 0, nil
	}
	filter := productFilter(filters)

	total, err := s.products.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	cur, err := s.products.Find(ctx, filter, findOptions(offset, limit, filters.Sort))
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	var docs []productDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}

	products := make([]models.Product, len(docs))
	for i, d := range docs {
		if products[i], err = d.model(); err != nil {
			return nil, 0, err
		}
	}
	if err := s.populate(ctx, products, true); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*models.Product, error) {
	return s.findProduct(ctx, bson.M{"_id": id})
}

func (s *Store) GetByKey(ctx context.Context, key string) (*models.Product, error) {
	return s.findProduct(ctx, bson.M{"productKey": key})
}

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	doc, err := fromProduct(*product)
	if err != nil {
		return err
	}
	if _, err := s.products.InsertOne(ctx, doc); err != nil {
		return translateError("create product", err)
	}
	return nil
}

// CreateProducts inserts in order and stops at the first failing document.
func (s *Store) CreateProducts(ctx context.Context, products []models.Product) error {
	docs := make([]any, len(products))
	for i := range products {
		if products[i].ID == "" {
			products[i].ID = uuid.NewString()
		}
		doc, err := fromProduct(products[i])
		if err != nil {
			return err
		}
		docs[i] = doc
	}
	if _, err := s.products.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return translateError("create products", err)
	}
	return nil
}

func (s *Store) UpdateByKey(ctx context.Context, key string, patch models.ProductPatch) (*models.Product, error) {
	set, err := productSet(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.GetByKey(ctx, key)
	}

	var doc productDocument
	err = s.products.FindOneAndUpdate(ctx,
		bson.M{"productKey": key},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, translateError("update product", err)
	}
	return s.single(ctx, doc)
}

func (s *Store) DeleteByKey(ctx context.Context, key string) (*models.Product, error) {
	var doc productDocument
	if err := s.products.FindOneAndDelete(ctx, bson.M{"productKey": key}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	p, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) findProduct(ctx context.Context, filter bson.M) (*models.Product, error) {
	var doc productDocument
	if err := s.products.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return s.single(ctx, doc)
}

func (s *Store) single(ctx context.Context, doc productDocument) (*models.Product, error) {
	p, err := doc.model()
	if err != nil {
		return nil, err
	}
	products := []models.Product{p}
	if err := s.populate(ctx, products, false); err != nil {
		return nil, err
	}
	return &products[0], nil
}

// populate fills Category on each product. With summary set only id, name and
// description are loaded. Dangling references stay empty.
func (s *Store) populate(ctx context.Context, products []models.Product, summary bool) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.CategoryID)
	}

	var opts []*options.FindOptions
	if summary {
		opts = append(opts, options.Find().SetProjection(bson.M{"name": 1, "description": 1}))
	}
	categories, err := s.findCategories(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts...)
	if err != nil {
		return err
	}

	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	for i := range products {
		products[i].Category = byID[products[i].CategoryID]
	}
	return nil
}

func translateError(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}
