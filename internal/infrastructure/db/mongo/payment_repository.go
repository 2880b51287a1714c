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

const paymentsCollection = "payments"

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(db *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: db.Collection(paymentsCollection)}
}

type paymentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          string             `bson:"user_id"`
	BookingID       string             `bson:"booking_id,omitempty"`
	Amount          float64            `bson:"amount"`
	Purpose         string             `bson:"purpose"`
	PaymentRef      string             `bson:"payment_ref"`
	GatewayResponse string             `bson:"gateway_response,omitempty"`
	Status          string             `bson:"status"`
	CreatedAt       time.Time          `bson:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at"`
}

func (d *paymentDoc) toDomain() *domain.Payment {
	return &domain.Payment{
		ID:              d.ID.Hex(),
		UserID:          d.UserID,
		BookingID:       d.BookingID,
		Amount:          d.Amount,
		Purpose:         domain.PaymentPurpose(d.Purpose),
		PaymentRef:      d.PaymentRef,
		GatewayResponse: d.GatewayResponse,
		Status:          domain.PaymentStatus(d.Status),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (*domain.Payment, error) {
	doc := paymentDoc{
		UserID:          p.UserID,
		BookingID:       p.BookingID,
		Amount:          p.Amount,
		Purpose:         string(p.Purpose),
		PaymentRef:      p.PaymentRef,
		GatewayResponse: p.GatewayResponse,
		Status:          string(p.Status),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicatePaymentRef
		}
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *PaymentRepository) FindByRef(ctx context.Context, ref string) (*domain.Payment, error) {
	return r.findOne(ctx, bson.M{"payment_ref": ref})
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]*domain.Payment, error) {
	return r.findMany(ctx, bson.M{})
}

func (r *PaymentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*domain.Payment, error) {
	return r.findMany(ctx, bson.M{"booking_id": bookingID})
}

func (r *PaymentRepository) FindByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	return r.findMany(ctx, bson.M{"user_id": userID})
}

func (r *PaymentRepository) Update(ctx context.Context, id string, input ports.UpdatePaymentInput) (*domain.Payment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPaymentNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if input.Amount != nil {
		set["amount"] = *input.Amount
	}
	if input.Status != nil {
		set["status"] = *input.Status
	}
	if input.GatewayResponse != nil {
		set["gateway_response"] = *input.GatewayResponse
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc paymentDoc
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("update payment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrPaymentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

func (r *PaymentRepository) findOne(ctx context.Context, query bson.M) (*domain.Payment, error) {
	var doc paymentDoc
	if err := r.coll.FindOne(ctx, query).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PaymentRepository) findMany(ctx context.Context, query bson.M) ([]*domain.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer cur.Close(ctx)

	out := []*domain.Payment{}
	for cur.Next(ctx) {
		var doc paymentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode payment: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate payments: %w", err)
	}
	return out, nil
}
