package product

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"time"

	"auraz-storefront/internal/domain"
	"auraz-storefront/internal/repository"
	"github.com/jackc/pgx/v5"
)

// Patchable lists the fields a partial update may touch.
var Patchable = repository.Columns{
	"name":           {Name: "name", Kind: repository.Text},
	"description":    {Name: "description", Kind: repository.Text},
	"price":          {Name: "price", Kind: repository.Number},
	"originalPrice":  {Name: "original_price", Kind: repository.Number},
	"image":          {Name: "image", Kind: repository.Text},
	"images":         {Name: "images", Kind: repository.JSONB},
	"category":       {Name: "category", Kind: repository.Text},
	"brand":          {Name: "brand", Kind: repository.Text},
	"stock":          {Name: "stock", Kind: repository.Int},
	"rating":         {Name: "rating", Kind: repository.Number},
	"reviewCount":    {Name: "review_count", Kind: repository.Int},
	"trending":       {Name: "trending", Kind: repository.Bool},
	"newArrival":     {Name: "new_arrival", Kind: repository.Bool},
	"isDeal":         {Name: "is_deal", Kind: repository.Bool},
	"isFestive":      {Name: "is_festive", Kind: repository.Bool},
	"isElectronics":  {Name: "is_electronics", Kind: repository.Bool},
	"variants":       {Name: "variants", Kind: repository.JSONB},
	"specifications": {Name: "specifications", Kind: repository.JSONB},
	"seller":         {Name: "seller", Kind: repository.JSONB},
}

const columnList = `id, name, description, price, original_price, image, images, category, brand, stock,
       rating, review_count, trending, new_arrival, is_deal, is_festive, is_electronics,
       variants, specifications, seller, created_at`

type postgresRepo struct {
	db     repository.Querier
	logger *log.Logger
}

func NewPostgres(db repository.Querier, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{db: db, logger: logger}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, "SELECT "+columnList+"\nFROM products\nORDER BY created_at DESC, id")
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	result := []domain.Product{}
	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) error {
	args, err := insertArgs(p)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO products (` + columnList + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
`
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		r.logger.Printf("product repo: create id=%s error=%v", p.ID, err)
		return repository.MapError(err)
	}
	r.logger.Printf("product repo: create id=%s", p.ID)
	return nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) error {
	args, err := insertArgs(p)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO products (` + columnList + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price = EXCLUDED.price,
    original_price = EXCLUDED.original_price,
    image = EXCLUDED.image,
    images = EXCLUDED.images,
    category = EXCLUDED.category,
    brand = EXCLUDED.brand,
    stock = EXCLUDED.stock,
    rating = EXCLUDED.rating,
    review_count = EXCLUDED.review_count,
    trending = EXCLUDED.trending,
    new_arrival = EXCLUDED.new_arrival,
    is_deal = EXCLUDED.is_deal,
    is_festive = EXCLUDED.is_festive,
    is_electronics = EXCLUDED.is_electronics,
    variants = EXCLUDED.variants,
    specifications = EXCLUDED.specifications,
    seller = EXCLUDED.seller
`
	if _, err := r.db.Exec(ctx, q, args...); err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return repository.MapError(err)
	}
	r.logger.Printf("product repo: upserted id=%s", p.ID)
	return nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, updates map[string]json.RawMessage) error {
	q, args, err := repository.BuildUpdate("products", Patchable, id, updates)
	if err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		r.logger.Printf("product repo: update id=%s error=%v", id, err)
		return repository.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: update id=%s fields=%d", id, len(updates))
	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Printf("product repo: delete id=%s error=%v", id, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("product repo: delete id=%s", id)
	return nil
}

func insertArgs(p domain.Product) ([]any, error) {
	images, err := json.Marshal(repository.NonNil(p.Images))
	if err != nil {
		return nil, err
	}
	variants, err := json.Marshal(repository.NonNil(p.Variants))
	if err != nil {
		return nil, err
	}
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}
	specJSON, err := json.Marshal(specs)
	if err != nil {
		return nil, err
	}
	seller := domain.Seller{}
	if p.Seller != nil {
		seller = *p.Seller
	}
	sellerJSON, err := json.Marshal(seller)
	if err != nil {
		return nil, err
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return []any{
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Image, images, p.Category, p.Brand, p.Stock,
		p.Rating, p.ReviewCount, p.Trending, p.NewArrival, p.IsDeal, p.IsFestive, p.IsElectronics,
		variants, specJSON, sellerJSON, createdAt,
	}, nil
}

func (r *postgresRepo) scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	var imagesJSON, variantsJSON, specJSON, sellerJSON []byte
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Image, &imagesJSON, &p.Category, &p.Brand, &p.Stock,
		&p.Rating, &p.ReviewCount, &p.Trending, &p.NewArrival, &p.IsDeal, &p.IsFestive, &p.IsElectronics,
		&variantsJSON, &specJSON, &sellerJSON, &p.CreatedAt,
	)
	if err != nil {
		r.logger.Printf("product repo: scan error=%v", err)
		return nil, err
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		r.logger.Printf("product repo: decode images id=%s err=%v", p.ID, err)
		return nil, err
	}
	if err := json.Unmarshal(variantsJSON, &p.Variants); err != nil {
		r.logger.Printf("product repo: decode variants id=%s err=%v", p.ID, err)
		return nil, err
	}
	if err := json.Unmarshal(specJSON, &p.Specifications); err != nil {
		r.logger.Printf("product repo: decode specifications id=%s err=%v", p.ID, err)
		return nil, err
	}
	var seller domain.Seller
	if err := json.Unmarshal(sellerJSON, &seller); err != nil {
		r.logger.Printf("product repo: decode seller id=%s err=%v", p.ID, err)
		return nil, err
	}
	if seller != (domain.Seller{}) {
		p.Seller = &seller
	}
	if len(p.Specifications) == 0 {
		p.Specifications = nil
	}
	return &p, nil
}
