package leads

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/acestone/renovation-leads/internal/pricing"
	"github.com/acestone/renovation-leads/pkg/logging"
)

// dynamoAPI is the subset of the DynamoDB client the repository uses,
// narrowed so tests can substitute a mock.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// leadItem is the DynamoDB shape of a Lead. Timestamps are stored as
// RFC3339Nano strings so records stay readable in the console.
type leadItem struct {
	ID            string   `dynamodbav:"id"`
	FullName      string   `dynamodbav:"fullName"`
	Email         string   `dynamodbav:"email"`
	Phone         string   `dynamodbav:"phone"`
	JobType       string   `dynamodbav:"jobType"`
	SquareFootage int      `dynamodbav:"squareFootage"`
	Urgency       string   `dynamodbav:"urgency"`
	Message       string   `dynamodbav:"message,omitempty"`
	Photos        []string `dynamodbav:"photos"`
	Quote         float64  `dynamodbav:"quote"`
	Status        string   `dynamodbav:"status"`
	Source        string   `dynamodbav:"source"`
	ExternalID    string   `dynamodbav:"externalId,omitempty"`
	Budget        string   `dynamodbav:"budget,omitempty"`
	ZipCode       string   `dynamodbav:"zipCode,omitempty"`
	CreatedAt     string   `dynamodbav:"createdAt"`
	UpdatedAt     string   `dynamodbav:"updatedAt"`
}

// DynamoRepository stores leads in a DynamoDB table keyed by id.
type DynamoRepository struct {
	client dynamoAPI
	table  string
	logger *logging.Logger
}

var _ Repository = (*DynamoRepository)(nil)

// NewDynamoRepository builds a repository backed by the provided client.
func NewDynamoRepository(client dynamoAPI, table string, logger *logging.Logger) *DynamoRepository {
	if client == nil {
		panic("leads: dynamodb client required")
	}
	if table == "" {
		panic("leads: table name required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DynamoRepository{client: client, table: table, logger: logger}
}

// Create persists a new lead. The uuid key plus a conditional put guarantee
// an id is never reused.
func (r *DynamoRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	now := time.Now().UTC()
	lead := newLead(req, uuid.NewString(), now)

	item, err := attributevalue.MarshalMap(toItem(lead))
	if err != nil {
		return nil, fmt.Errorf("leads: marshal lead: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		return nil, fmt.Errorf("leads: put lead: %w", err)
	}
	return lead, nil
}

// List returns all leads newest first. A backend failure degrades to an
// empty result so the dashboard stays available; the error is only logged.
func (r *DynamoRepository) List(ctx context.Context) ([]Lead, error) {
	var items []leadItem
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         aws.String(r.table),
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			r.logger.Error("leads: scan failed, serving empty list", "error", err, "table", r.table)
			return []Lead{}, nil
		}
		var page []leadItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			r.logger.Error("leads: unmarshal scan page, serving empty list", "error", err)
			return []Lead{}, nil
		}
		items = append(items, page...)
		if out.LastEvaluatedKey == nil {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	out := make([]Lead, 0, len(items))
	for _, it := range items {
		out = append(out, *fromItem(&it))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID fetches a single lead, returning ErrLeadNotFound on a miss.
func (r *DynamoRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("leads: get lead %s: %w", id, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrLeadNotFound
	}
	var it leadItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return nil, fmt.Errorf("leads: unmarshal lead %s: %w", id, err)
	}
	return fromItem(&it), nil
}

// UpdateStatus sets the status and refreshes updatedAt in one conditional
// update. An unknown id surfaces as ErrLeadNotFound, never a raw backend
// error.
func (r *DynamoRepository) UpdateStatus(ctx context.Context, id string, status Status) (*Lead, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		ConditionExpression: aws.String("attribute_exists(id)"),
		UpdateExpression:    aws.String("SET #status = :status, #updated = :updated"),
		ExpressionAttributeNames: map[string]string{
			"#status":  "status",
			"#updated": "updatedAt",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status":  &types.AttributeValueMemberS{Value: string(status)},
			":updated": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339Nano)},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		var condFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condFailed) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: update status %s: %w", id, err)
	}
	var it leadItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &it); err != nil {
		return nil, fmt.Errorf("leads: unmarshal updated lead %s: %w", id, err)
	}
	return fromItem(&it), nil
}

// Stats scans the table and aggregates fresh on every call. Inherits List's
// degrade-to-empty behavior, so a storage stutter yields zeros, not a 500.
func (r *DynamoRepository) Stats(ctx context.Context) (Stats, error) {
	all, err := r.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(all, time.Now().UTC()), nil
}

func toItem(l *Lead) *leadItem {
	photos := l.Photos
	if photos == nil {
		photos = []string{}
	}
	return &leadItem{
		ID:            l.ID,
		FullName:      l.FullName,
		Email:         l.Email,
		Phone:         l.Phone,
		JobType:       string(l.JobType),
		SquareFootage: l.SquareFootage,
		Urgency:       string(l.Urgency),
		Message:       l.Message,
		Photos:        photos,
		Quote:         l.Quote,
		Status:        string(l.Status),
		Source:        string(l.Source),
		ExternalID:    l.ExternalID,
		Budget:        l.Budget,
		ZipCode:       l.ZipCode,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:     l.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func fromItem(it *leadItem) *Lead {
	createdAt, _ := time.Parse(time.RFC3339Nano, it.CreatedAt)
	updatedAt, _ := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	photos := it.Photos
	if photos == nil {
		photos = []string{}
	}
	return &Lead{
		ID:            it.ID,
		FullName:      it.FullName,
		Email:         it.Email,
		Phone:         it.Phone,
		JobType:       pricing.JobType(it.JobType),
		SquareFootage: it.SquareFootage,
		Urgency:       pricing.Urgency(it.Urgency),
		Message:       it.Message,
		Photos:        photos,
		Quote:         it.Quote,
		Status:        Status(it.Status),
		Source:        Source(it.Source),
		ExternalID:    it.ExternalID,
		Budget:        it.Budget,
		ZipCode:       it.ZipCode,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}
}
