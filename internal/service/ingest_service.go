package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
	"github.com/sleeping-Zack/iot-platform/internal/repository"
)

// IngestService is the ingestion gateway: it validates and calibrates one
// reading, evaluates thresholds and persists the whole acceptance unit
// atomically through the readings repository.
type IngestService struct {
	devices  repository.DevicesRepo
	readings repository.ReadingsRepo
	logger   *zap.Logger
}

func NewIngestService(devices repository.DevicesRepo, readings repository.ReadingsRepo, logger *zap.Logger) *IngestService {
	return &IngestService{devices: devices, readings: readings, logger: logger}
}

// Receipt acknowledges acceptance. Alert detail is queried separately.
type Receipt struct {
	ReceiptID  string    `json:"receipt_id"`
	ReadingID  int64     `json:"reading_id"`
	AcceptedAt time.Time `json:"accepted_at"`
}

func (s *IngestService) Ingest(ctx context.Context, deviceCode string, rawValue float64) (*Receipt, error) {
	if strings.TrimSpace(deviceCode) == "" {
		return nil, domain.NewValidationError("device_code required")
	}
	if math.IsNaN(rawValue) || math.IsInf(rawValue, 0) {
		return nil, domain.NewValidationError("sensor_value must be a finite number")
	}

	device, err := s.devices.GetByCode(ctx, deviceCode)
	if err != nil {
		return nil, err
	}

	calibrated := device.Calibrate(rawValue)
	now := time.Now().UTC()
	draft := EvaluateThreshold(calibrated, device.ThresholdHi, device.ThresholdLo)

	readingID, err := s.readings.CreateAccepted(ctx, &domain.AcceptedReading{
		DeviceID:        device.DeviceID,
		RawValue:        rawValue,
		CalibratedValue: calibrated,
		Quality:         domain.QualityGood,
		AcceptedAt:      now,
		Alert:           draft,
	})
	if err != nil {
		return nil, err
	}

	if draft != nil {
		s.logger.Warn("threshold breached",
			zap.String("device_code", device.DeviceCode),
			zap.Int64("reading_id", readingID),
			zap.String("level", draft.Level),
			zap.Float64("value", calibrated),
		)
	} else {
		s.logger.Debug("reading accepted",
			zap.String("device_code", device.DeviceCode),
			zap.Int64("reading_id", readingID),
			zap.Float64("value", calibrated),
		)
	}

	return &Receipt{
		ReceiptID:  uuid.NewString(),
		ReadingID:  readingID,
		AcceptedAt: now,
	}, nil
}
