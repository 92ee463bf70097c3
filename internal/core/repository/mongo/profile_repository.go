package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/duynhne/directory-service/internal/core/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const profilesCollection = "profiles"

// profileDoc is the stored shape of a profile.
type profileDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Email       string             `bson:"email"`
	Phone       string             `bson:"phone"`
	Gender      string             `bson:"gender"`
	Work        []string           `bson:"work"`
	Address     string             `bson:"address"`
	Village     string             `bson:"village"`
	City        string             `bson:"city"`
	State       string             `bson:"state"`
	CompanyName string             `bson:"companyName"`
	Experience  string             `bson:"experience"`
	Description string             `bson:"description"`
	Avatar      string             `bson:"avatar"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *profileDoc) toDomain() domain.Profile {
	work := d.Work
	if work == nil {
		work = []string{}
	}
	return domain.Profile{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Gender:      d.Gender,
		Work:        work,
		Address:     d.Address,
		Village:     d.Village,
		City:        d.City,
		State:       d.State,
		CompanyName: d.CompanyName,
		Experience:  d.Experience,
		Description: d.Description,
		Avatar:      d.Avatar,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// ProfileRepository implements domain.ProfileRepository on a MongoDB collection.
type ProfileRepository struct {
	profiles *mongodriver.Collection
}

// NewProfileRepository binds the repository to the profiles collection of db.
func NewProfileRepository(db *mongodriver.Database) *ProfileRepository {
	return &ProfileRepository{profiles: db.Collection(profilesCollection)}
}

// EnsureIndexes creates the indexes the listing relies on:
//   - createdAt(desc) + _id(desc) for the newest-first page order
//   - email for uniqueness lookups, unique over non-empty values when uniqueEmail is set
//   - work for tag filters
func (r *ProfileRepository) EnsureIndexes(ctx context.Context, uniqueEmail bool) error {
	emailOpts := options.Index().SetName("email")
	if uniqueEmail {
		emailOpts = options.Index().SetName("email_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "email", Value: bson.D{{Key: "$gt", Value: ""}}}})
	}

	models := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: emailOpts,
		},
		{
			Keys:    bson.D{{Key: "work", Value: 1}},
			Options: options.Index().SetName("work"),
		},
	}

	if _, err := r.profiles.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// List returns one page of matching profiles and the total match count.
func (r *ProfileRepository) List(ctx context.Context, q domain.ListQuery) ([]domain.Profile, int64, error) {
	const op = "repository/mongo/List"

	filter := compileFilter(q.Predicate)

	total, err := r.profiles.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: count: %w", op, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))

	cur, err := r.profiles.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	profiles := make([]domain.Profile, 0, q.Limit)
	for cur.Next(ctx) {
		var doc profileDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("%s: decode: %w", op, err)
		}
		profiles = append(profiles, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return profiles, total, nil
}

// GetByID returns the profile with the given hex ObjectID.
// A malformed id is treated as "no such profile".
func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const op = "repository/mongo/GetByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	var doc profileDoc
	if err := r.profiles.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := doc.toDomain()
	return &p, nil
}

// EmailExists checks whether any profile uses the email.
func (r *ProfileRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.profiles.CountDocuments(ctx, bson.D{{Key: "email", Value: email}}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("repository/mongo/EmailExists: %w", err)
	}
	return n > 0, nil
}

// Create inserts p and returns the stored copy.
func (r *ProfileRepository) Create(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	const op = "repository/mongo/Create"

	// MongoDB DateTime keeps milliseconds.
	now := time.Now().UTC().Truncate(time.Millisecond)

	work := p.Work
	if work == nil {
		work = []string{}
	}

	doc := profileDoc{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Gender:      p.Gender,
		Work:        work,
		Address:     p.Address,
		Village:     p.Village,
		City:        p.City,
		State:       p.State,
		CompanyName: p.CompanyName,
		Experience:  p.Experience,
		Description: p.Description,
		Avatar:      p.Avatar,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := r.profiles.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type %T", op, res.InsertedID)
	}
	doc.ID = oid

	created := doc.toDomain()
	return &created, nil
}

// Update applies upd with $set and returns the document after the update.
func (r *ProfileRepository) Update(ctx context.Context, id string, upd domain.ProfileUpdate) (*domain.Profile, error) {
	const op = "repository/mongo/Update"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC().Truncate(time.Millisecond)}}
	addString := func(key string, v *string) {
		if v != nil {
			set = append(set, bson.E{Key: key, Value: *v})
		}
	}
	addString("name", upd.Name)
	addString("email", upd.Email)
	addString("phone", upd.Phone)
	addString("gender", upd.Gender)
	if upd.Work != nil {
		set = append(set, bson.E{Key: "work", Value: upd.Work})
	}
	addString("address", upd.Address)
	addString("village", upd.Village)
	addString("city", upd.City)
	addString("state", upd.State)
	addString("companyName", upd.CompanyName)
	addString("experience", upd.Experience)
	addString("description", upd.Description)
	addString("avatar", upd.Avatar)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc profileDoc
	err = r.profiles.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}}, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongodriver.ErrNoDocuments):
			return nil, fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
		case mongodriver.IsDuplicateKeyError(err):
			return nil, fmt.Errorf("%s: %w", op, domain.ErrEmailTaken)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := doc.toDomain()
	return &p, nil
}

// Delete removes the profile permanently.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	const op = "repository/mongo/Delete"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}

	res, err := r.profiles.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, domain.ErrProfileNotFound)
	}
	return nil
}

// WorkTypes returns the distinct non-empty work tags in ascending order.
func (r *ProfileRepository) WorkTypes(ctx context.Context) ([]string, error) {
	values, err := r.profiles.Distinct(ctx, "work", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("repository/mongo/WorkTypes: %w", err)
	}

	types := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			types = append(types, s)
		}
	}
	sort.Strings(types)
	return types, nil
}

// compileFilter turns the predicate into a query document. Substrings are
// quoted so user text never acts as a regular expression. A regex on the
// work array matches when any element matches.
func compileFilter(pred domain.Predicate) bson.M {
	switch len(pred) {
	case 0:
		return bson.M{}
	case 1:
		return compileClause(pred[0])
	}

	and := make(bson.A, 0, len(pred))
	for _, clause := range pred {
		and = append(and, compileClause(clause))
	}
	return bson.M{"$and": and}
}

func compileClause(clause domain.Clause) bson.M {
	or := make(bson.A, 0, len(clause))
	for _, cond := range clause {
		or = append(or, bson.M{
			string(cond.Field): bson.M{"$regex": regexp.QuoteMeta(cond.Substring), "$options": "i"},
		})
	}
	return bson.M{"$or": or}
}
