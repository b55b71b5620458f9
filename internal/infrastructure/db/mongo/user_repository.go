package mongo

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/acmecorp/user-management-api/internal/core/domain"
	"github.com/acmecorp/user-management-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password,omitempty"`
	Role      primitive.ObjectID `bson:"role"`
	RoleName  string             `bson:"roleName"`
	FirstName string             `bson:"firstName,omitempty"`
	LastName  string             `bson:"lastName,omitempty"`
	Active    bool               `bson:"active"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		RoleID:       m.Role.Hex(),
		RoleName:     m.RoleName,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// excludePassword is the projection applied to every read except the login
// lookup.
var excludePassword = bson.M{"password": 0}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var m mongoUser
	err = r.col.FindOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(excludePassword)).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

// FindByEmailWithPassword backs the login flow; it is the only read that
// includes the password hash.
func (r *UserRepository) FindByEmailWithPassword(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoUser
	if err := r.col.FindOne(ctx, bson.M{"email": email}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return m.toDomain(), nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.findMany(ctx, bson.M{})
}

// Search matches a case-insensitive substring against the identity fields,
// including the denormalized roleName.
func (r *UserRepository) Search(ctx context.Context, text string) ([]domain.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"email": pattern},
		bson.M{"username": pattern},
		bson.M{"roleName": pattern},
		bson.M{"firstName": pattern},
		bson.M{"lastName": pattern},
	}}
	return r.findMany(ctx, filter)
}

func (r *UserRepository) findMany(ctx context.Context, filter bson.M) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(excludePassword).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]domain.User, len(docs))
	for i, m := range docs {
		users[i] = *m.toDomain()
	}
	return users, nil
}

func (r *UserRepository) FindExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := make(map[string]struct{}, len(ids))
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		existing[doc.ID.Hex()] = struct{}{}
	}
	return existing, cur.Err()
}

func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	roleOID, err := primitive.ObjectIDFromHex(user.RoleID)
	if err != nil {
		return nil, domain.ErrInvalidRole
	}

	doc := mongoUser{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		Role:      roleOID,
		RoleName:  user.RoleName,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Active:    user.Active,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateFieldError(err)
		}
		return nil, err
	}

	created := *user
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// duplicateFieldError names the unique field that collided by inspecting the
// index named in the duplicate-key error.
func duplicateFieldError(err error) error {
	if strings.Contains(err.Error(), "username") {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return domain.ErrUserNotFound
	}
	roleOID, err := primitive.ObjectIDFromHex(user.RoleID)
	if err != nil {
		return domain.ErrInvalidRole
	}

	set := bson.M{
		"username":  user.Username,
		"email":     user.Email,
		"role":      roleOID,
		"roleName":  user.RoleName,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"active":    user.Active,
		"updatedAt": user.UpdatedAt,
	}
	if user.PasswordHash != "" {
		set["password"] = user.PasswordHash
	}

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateFieldError(err)
		}
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ExistsByRole(ctx context.Context, roleID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return false, nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"role": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateRoleName(ctx context.Context, roleID, roleName string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(roleID)
	if err != nil {
		return 0, domain.ErrRoleNotFound
	}

	res, err := r.col.UpdateMany(ctx, bson.M{"role": oid}, bson.M{"$set": bson.M{"roleName": roleName}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// patchToSet translates the nil-aware patch into a $set document.
func patchToSet(patch ports.UserPatch) (bson.M, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.FirstName != nil {
		set["firstName"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Active != nil {
		set["active"] = *patch.Active
	}
	if patch.Role != nil {
		oid, err := primitive.ObjectIDFromHex(*patch.Role)
		if err != nil {
			return nil, domain.ErrInvalidRole
		}
		set["role"] = oid
	}
	if patch.RoleName != nil {
		set["roleName"] = *patch.RoleName
	}
	return set, nil
}

func (r *UserRepository) UpdateMany(ctx context.Context, ids []string, patch ports.UserPatch) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, 0, domain.ErrUserNotFound
		}
		oids = append(oids, oid)
	}

	set, err := patchToSet(patch)
	if err != nil {
		return 0, 0, err
	}

	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": oids}}, bson.M{"$set": set})
	if err != nil {
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// BulkUpdate submits one UpdateOne model per op in a single unordered batch
// so a non-matching filter never aborts sibling writes. Ids that do not parse
// as ObjectIDs still enter the batch with the zero id and simply match
// nothing, which the service detects through the aggregate counts.
func (r *UserRepository) BulkUpdate(ctx context.Context, ops []ports.UserBulkOp) (int64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(ops))
	for _, op := range ops {
		oid, _ := primitive.ObjectIDFromHex(op.UserID)
		set, err := patchToSet(op.Patch)
		if err != nil {
			return 0, 0, err
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": set}))
	}

	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		// An unordered batch reports write errors per entry; the partial
		// result still carries the aggregate counts for the entries that
		// went through.
		var bwe mongo.BulkWriteException
		if errors.As(err, &bwe) && res != nil {
			return res.MatchedCount, res.ModifiedCount, nil
		}
		return 0, 0, err
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// EnsureIndexes creates the unique username/email indexes and the role
// lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
