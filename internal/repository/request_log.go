package repository

import (
	"context"

	"virapi/internal/model"
	"virapi/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RequestLogFilter 请求日志查询条件
type RequestLogFilter struct {
	AppID  string
	APIID  string
	Result *int
}

// RequestLogRepository 请求日志仓储接口（只追加）
type RequestLogRepository interface {
	Insert(ctx context.Context, log *model.RequestLog) error
	List(ctx context.Context, filter RequestLogFilter, page, perPage int) ([]model.RequestLog, int64, error)
	Count(ctx context.Context) (int64, error)
}

// requestLogRepository 请求日志仓储实现
type requestLogRepository struct {
	collection *mongo.Collection
}

// NewRequestLogRepository 创建请求日志仓储实例
func NewRequestLogRepository(mongodb *database.MongoClient) RequestLogRepository {
	return &requestLogRepository{
		collection: mongodb.Collection(model.RequestLogCollection),
	}
}

// Insert 追加一条日志记录
func (r *requestLogRepository) Insert(ctx context.Context, log *model.RequestLog) error {
	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// List 分页获取日志列表，按创建时间倒序
func (r *requestLogRepository) List(ctx context.Context, filter RequestLogFilter, page, perPage int) ([]model.RequestLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 10
	}

	query := bson.M{}
	if filter.AppID != "" {
		query["app_id"] = filter.AppID
	}
	if filter.APIID != "" {
		query["api_id"] = filter.APIID
	}
	if filter.Result != nil {
		query["result"] = *filter.Result
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	logs := make([]model.RequestLog, 0, perPage)
	if total == 0 {
		return logs, 0, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created", Value: -1}}).
		SetSkip(int64((page - 1) * perPage)).
		SetLimit(int64(perPage))

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// Count 统计日志总数
func (r *requestLogRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.EstimatedDocumentCount(ctx)
}
