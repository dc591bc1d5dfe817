package quota

import "context"

type Repository interface {
	Count(ctx context.Context, date string) (int, error)
	// IncrementBelow adds one to the date's counter only while it is below
	// limit. ok is false when the ceiling was already reached.
	IncrementBelow(ctx context.Context, date string, limit int) (count int, ok bool, err error)
	SavePrediction(ctx context.Context, p Prediction) error
	GetPrediction(ctx context.Context, date string) (Prediction, bool, error)
}
