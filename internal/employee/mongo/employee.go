package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	employeeDatamodel "github.com/frahmantamala/employee-api/internal/core/datamodel/employee"
	"github.com/frahmantamala/employee-api/internal/employee"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "employees"

type employeeDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	FirstName  string             `bson:"firstName"`
	LastName   string             `bson:"lastName"`
	Email      string             `bson:"email"`
	Department string             `bson:"department,omitempty"`
	Position   string             `bson:"position,omitempty"`
	Salary     float64            `bson:"salary"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (d employeeDocument) toDataModel() *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		ID:         d.ID.Hex(),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		Email:      d.Email,
		Department: d.Department,
		Position:   d.Position,
		Salary:     d.Salary,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type EmployeeRepository struct {
	coll *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the unique email index; safe to call on every start.
func (r *EmployeeRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("employees: create email index: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]*employeeDatamodel.Employee, error) {
	cursor, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("employees: find: %w", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("employees: decode: %w", err)
	}

	employees := make([]*employeeDatamodel.Employee, 0, len(docs))
	for _, doc := range docs {
		employees = append(employees, doc.toDataModel())
	}
	return employees, nil
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*employeeDatamodel.Employee, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *EmployeeRepository) Create(ctx context.Context, e *employeeDatamodel.Employee) error {
	now := time.Now().UTC()
	doc := employeeDocument{
		ID:         primitive.NewObjectID(),
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return employee.ErrEmailTaken
		}
		return fmt.Errorf("employees: insert: %w", err)
	}

	e.ID = doc.ID.Hex()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (r *EmployeeRepository) Update(ctx context.Context, id string, patch employeeDatamodel.Patch) (*employeeDatamodel.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}
	if patch.IsEmpty() {
		return r.findOne(ctx, bson.M{"_id": oid})
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.FirstName != nil {
		set["firstName"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["lastName"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Department != nil {
		set["department"] = *patch.Department
	}
	if patch.Position != nil {
		set["position"] = *patch.Position
	}
	if patch.Salary != nil {
		set["salary"] = *patch.Salary
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc employeeDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, employee.ErrEmailTaken
		}
		return nil, fmt.Errorf("employees: update: %w", err)
	}
	return doc.toDataModel(), nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) (*employeeDatamodel.Employee, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("employees: %w", err)
	}

	var doc employeeDocument
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("employees: delete: %w", err)
	}
	return doc.toDataModel(), nil
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*employeeDatamodel.Employee, error) {
	var doc employeeDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("employees: find one: %w", err)
	}
	return doc.toDataModel(), nil
}

// DeleteAll empties the collection. Only the seed command uses it.
func (r *EmployeeRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("employees: delete all: %w", err)
	}
	return res.DeletedCount, nil
}
