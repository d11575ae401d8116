package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gemforge/cad-converter/internal/client"
	"github.com/gemforge/cad-converter/internal/events"
	"github.com/gemforge/cad-converter/internal/service/mappers"
	"github.com/gemforge/cad-converter/internal/storage"
	"github.com/gemforge/cad-converter/internal/store"
	"github.com/gemforge/cad-converter/internal/store/model"
	"github.com/gemforge/cad-converter/pkg/metrics"
)

// CadConverter is the outbound side of the pipeline. Implemented by
// client.CadClient; tests substitute a fake.
type CadConverter interface {
	Convert(ctx context.Context, request client.ConvertRequest) (*client.ConvertResponse, error)
}

// ConversionService drives one conversion job from "has vectorized artifact"
// to "has CAD files", synchronously, within the lifetime of one request.
// Every step is attempted exactly once; the first failure marks the job
// failed and stops the pipeline.
type ConversionService struct {
	store   store.Store
	cad     CadConverter
	objects storage.ObjectStore
	events  *events.EventProducer
}

func NewConversionService(store store.Store, cad CadConverter, objects storage.ObjectStore, ep *events.EventProducer) *ConversionService {
	return &ConversionService{
		store:   store,
		cad:     cad,
		objects: objects,
		events:  ep,
	}
}

// Convert runs the conversion pipeline for the given job id.
//
// The status writes are sequential and not transactional: a crash between the
// CAD call and the final write can leave the row in generating_cad. That is a
// known limitation carried over from the upstream design, not a guarantee.
func (s *ConversionService) Convert(ctx context.Context, conversionID, userID string) error {
	logger := zap.S().Named("conversion_service").With("conversion_id", conversionID, "user_id", userID)
	start := time.Now()

	conversion, err := s.store.Conversion().Get(ctx, conversionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			// Nothing to mark failed: the row does not exist and this
			// service never creates one.
			metrics.IncreaseConversionsTotalMetric(string(model.ConversionStatusFailed))
			return NewErrConversionNotFound(conversionID)
		}
		return err
	}

	if conversion.VectorizedSVGURL == nil || *conversion.VectorizedSVGURL == "" {
		return s.fail(ctx, logger, conversionID, userID, NewErrMissingVectorizedArtifact(conversionID))
	}

	if _, err := s.store.Conversion().UpdateStatus(ctx, conversionID, model.ConversionStatusGeneratingCAD, store.StepGeneratingCAD); err != nil {
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	gemstones, err := s.store.GemstoneSpec().List(ctx, conversionID)
	if err != nil {
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	metal, err := s.store.MetalSpec().Get(ctx, conversionID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			err = NewErrMissingMetalSpec(conversionID)
		}
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	request, err := mappers.ToConvertRequest(conversion, gemstones, metal)
	if err != nil {
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	logger.Infow("sending design to CAD service", "gemstone_specs", len(gemstones))
	generated, err := s.cad.Convert(ctx, request)
	if err != nil {
		return s.fail(ctx, logger, conversionID, userID, NewErrCadService(err))
	}

	urls, err := s.uploadModels(ctx, conversionID, generated)
	if err != nil {
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	completedAt := time.Now().UTC()
	if _, err := s.store.Conversion().Complete(ctx, conversionID, urls, completedAt); err != nil {
		return s.fail(ctx, logger, conversionID, userID, err)
	}

	metrics.IncreaseConversionsTotalMetric(string(model.ConversionStatusCompleted))
	metrics.ObserveConversionDurationMetric(time.Since(start))
	s.publish(ctx, events.ConversionCompletedKind, events.ConversionMessage{
		ConversionID: conversionID,
		UserID:       userID,
		Status:       string(model.ConversionStatusCompleted),
		CadFileURL:   urls.Step,
		StlFileURL:   urls.Stl,
		ObjFileURL:   urls.Obj,
	})
	logger.Infow("conversion completed", "duration", time.Since(start))

	return nil
}

// uploadModels writes the three generated payloads to their deterministic
// bucket keys and resolves the public URLs.
func (s *ConversionService) uploadModels(ctx context.Context, conversionID string, generated *client.ConvertResponse) (model.ModelURLs, error) {
	payloads := map[storage.ModelFormat][]byte{
		storage.FormatStep: []byte(generated.StepFile),
		storage.FormatStl:  []byte(generated.StlFile),
		storage.FormatObj:  []byte(generated.ObjFile),
	}

	var urls model.ModelURLs
	for _, format := range storage.Formats() {
		key := format.Key(conversionID)
		if err := s.objects.Put(ctx, key, payloads[format], format.ContentType()); err != nil {
			return model.ModelURLs{}, err
		}

		url := s.objects.PublicURL(key)
		switch format {
		case storage.FormatStep:
			urls.Step = url
		case storage.FormatStl:
			urls.Stl = url
		case storage.FormatObj:
			urls.Obj = url
		}
	}

	return urls, nil
}

// fail converges every pipeline error to the same persisted shape: status
// failed, progress reset to zero and the stringified error kept for the
// operator.
func (s *ConversionService) fail(ctx context.Context, logger *zap.SugaredLogger, conversionID, userID string, cause error) error {
	logger.Warnw("conversion failed", "error", cause)

	if _, err := s.store.Conversion().Fail(ctx, conversionID, cause.Error()); err != nil {
		logger.Errorw("failed to mark conversion failed", "error", err)
	}

	metrics.IncreaseConversionsTotalMetric(string(model.ConversionStatusFailed))
	s.publish(ctx, events.ConversionFailedKind, events.ConversionMessage{
		ConversionID: conversionID,
		UserID:       userID,
		Status:       string(model.ConversionStatusFailed),
		Error:        cause.Error(),
	})

	return cause
}

func (s *ConversionService) publish(ctx context.Context, kind string, message events.ConversionMessage) {
	if s.events == nil {
		return
	}

	body, err := message.Reader()
	if err != nil {
		zap.S().Named("conversion_service").Warnw("failed to encode event", "error", err)
		return
	}
	if err := s.events.Write(ctx, kind, body); err != nil {
		zap.S().Named("conversion_service").Warnw("failed to publish event", "error", err)
	}
}
