package models

import (
	"fmt"

	"github.com/ekaya-inc/enrollment-sync/pkg/apperrors"
)

// PipelineStage is the closed set of application lifecycle statuses the
// source system emits.
type PipelineStage string

const (
	StageApplied           PipelineStage = "applied"
	StageInterviewing      PipelineStage = "interviewing"
	StageOffered           PipelineStage = "offered"
	StageAccepted          PipelineStage = "accepted"
	StageRejected          PipelineStage = "rejected"
	StageExpired           PipelineStage = "expired"
	StageEnrolled          PipelineStage = "enrolled"
	StageWithdrawn         PipelineStage = "withdrawn"
	StageCourseCancelled   PipelineStage = "course cancelled"
	StageCourseIsNotActive PipelineStage = "course is not active"
)

// stageCodes maps every pipeline stage to its remote pipeline-stage id.
var stageCodes = map[PipelineStage]int64{
	StageInterviewing:      411851999,
	StageOffered:           411852000,
	StageAccepted:          411900861,
	StageRejected:          411900862,
	StageExpired:           411900863,
	StageEnrolled:          411900864,
	StageWithdrawn:         411900865,
	StageCourseCancelled:   411900866,
	StageApplied:           417475574,
	StageCourseIsNotActive: 476977084,
}

// StageCode translates a source stage string (case-insensitive, trimmed)
// to its remote code. Unknown stages are a hard mapping failure.
func StageCode(stage string) (string, error) {
	code, ok := stageCodes[PipelineStage(NormalizeKey(stage))]
	if !ok {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownStage, stage)
	}
	return fmt.Sprintf("%d", code), nil
}
