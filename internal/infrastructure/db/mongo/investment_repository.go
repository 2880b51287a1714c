package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kwolity/realty-api/internal/core/domain"
	"github.com/kwolity/realty-api/internal/core/ports"
)

const investmentsCollection = "investments"

type InvestmentRepository struct {
	coll *mongo.Collection
}

func NewInvestmentRepository(db *mongo.Database) *InvestmentRepository {
	return &InvestmentRepository{coll: db.Collection(investmentsCollection)}
}

type investmentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description"`
	GoalAmount    float64            `bson:"goal_amount"`
	CurrentAmount float64            `bson:"current_amount"`
	ExpectedROI   float64            `bson:"expected_roi"`
	Investors     []string           `bson:"investors,omitempty"`
	Status        string             `bson:"status"`
	Type          string             `bson:"type"`
	Images        []string           `bson:"images"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

func (d *investmentDoc) toDomain() *domain.Investment {
	return &domain.Investment{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Description:   d.Description,
		GoalAmount:    d.GoalAmount,
		CurrentAmount: d.CurrentAmount,
		ExpectedROI:   d.ExpectedROI,
		Investors:     d.Investors,
		Status:        domain.InvestmentStatus(d.Status),
		Type:          domain.PropertyType(d.Type),
		Images:        d.Images,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (r *InvestmentRepository) Create(ctx context.Context, inv *domain.Investment) (*domain.Investment, error) {
	doc := investmentDoc{
		Title:         inv.Title,
		Description:   inv.Description,
		GoalAmount:    inv.GoalAmount,
		CurrentAmount: inv.CurrentAmount,
		ExpectedROI:   inv.ExpectedROI,
		Investors:     inv.Investors,
		Status:        string(inv.Status),
		Type:          string(inv.Type),
		Images:        inv.Images,
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert investment: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *InvestmentRepository) FindByID(ctx context.Context, id string) (*domain.Investment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvestmentNotFound
	}

	var doc investmentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("find investment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *InvestmentRepository) FindAll(ctx context.Context) ([]*domain.Investment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *InvestmentRepository) FindByInvestor(ctx context.Context, userID string) ([]*domain.Investment, error) {
	return r.findMany(ctx, bson.M{"investors": userID})
}

func (r *InvestmentRepository) Update(ctx context.Context, id string, input ports.UpdateInvestmentInput) (*domain.Investment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvestmentNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.GoalAmount != nil {
		set["goal_amount"] = *input.GoalAmount
	}
	if input.ExpectedROI != nil {
		set["expected_roi"] = *input.ExpectedROI
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.Images != nil {
		set["images"] = input.Images
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc investmentDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("update investment: %w", err)
	}
	return doc.toDomain(), nil
}

// Save persists the funding state of a loaded aggregate: current amount,
// investor set, and status in one write.
func (r *InvestmentRepository) Save(ctx context.Context, inv *domain.Investment) error {
	oid, err := primitive.ObjectIDFromHex(inv.ID)
	if err != nil {
		return domain.ErrInvestmentNotFound
	}

	set := bson.M{
		"current_amount": inv.CurrentAmount,
		"investors":      inv.Investors,
		"status":         string(inv.Status),
		"updated_at":     inv.UpdatedAt,
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("save investment: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

func (r *InvestmentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvestmentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete investment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrInvestmentNotFound
	}
	return nil
}

func (r *InvestmentRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count investments: %w", err)
	}
	return n, nil
}

func (r *InvestmentRepository) findMany(ctx context.Context, query bson.M) ([]*domain.Investment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Investment{}
	for cur.Next(ctx) {
		var doc investmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode investment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate investments: %w", err)
	}
	return out, nil
}
