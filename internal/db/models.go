package db

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/besuhoff/dungeon-maze-go/internal/replay"
)

const runsCollection = "runs"

// ErrNoRuns is returned when a level has no archived run.
var ErrNoRuns = errors.New("no archived runs")

// Run is one finished level: its outcome and the command recording that
// produced it.
type Run struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Level       int                `bson:"level" json:"level"`
	Seed        int64              `bson:"seed" json:"seed"`
	Ticks       int64              `bson:"ticks" json:"ticks"`
	Status      string             `bson:"status" json:"status"`
	Fingerprint string             `bson:"fingerprint" json:"fingerprint"`
	Fuel        int                `bson:"fuel" json:"fuel"`
	Ammo        int                `bson:"ammo" json:"ammo"`
	Commands    int                `bson:"commands" json:"commands"`
	Recording   []byte             `bson:"recording" json:"-"` // msgpack
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// NewRun packs a recording into an archive record.
func NewRun(rec replay.Recording, ticks uint64, status, fingerprint string) (*Run, error) {
	if len(rec.Commands) == 0 {
		return nil, replay.ErrEmptyRecording
	}
	data, err := replay.Encode(rec)
	if err != nil {
		return nil, err
	}
	return &Run{
		Level:       rec.Level,
		Seed:        rec.Seed,
		Ticks:       int64(ticks),
		Status:      status,
		Fingerprint: fingerprint,
		Commands:    len(rec.Commands),
		Recording:   data,
	}, nil
}

// Replay decodes the stored recording.
func (r *Run) Replay() (replay.Recording, error) {
	return replay.Decode(r.Recording)
}

// RunRepository provides database operations for archived runs
type RunRepository struct {
	collection *mongo.Collection
}

// NewRunRepository creates a new run repository
func NewRunRepository() *RunRepository {
	return &RunRepository{
		collection: Database.Collection(runsCollection),
	}
}

// Insert archives a run
func (r *RunRepository) Insert(ctx context.Context, run *Run) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	result, err := r.collection.InsertOne(ctx, run)
	if err != nil {
		return err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		run.ID = id
	}
	return nil
}

// FindByLevel lists the runs of a level, fastest first.
func (r *RunRepository) FindByLevel(ctx context.Context, level int, limit int64) ([]Run, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "ticks", Value: 1}}).
		SetLimit(limit).
		SetProjection(bson.M{"recording": 0})

	cursor, err := r.collection.Find(ctx, bson.M{"level": level}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	runs := []Run{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// LatestRecording returns the most recent recording archived for a level.
func (r *RunRepository) LatestRecording(ctx context.Context, level int) (*replay.Recording, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var run Run
	err := r.collection.FindOne(ctx, bson.M{"level": level}, opts).Decode(&run)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, err
	}

	rec, err := run.Replay()
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
