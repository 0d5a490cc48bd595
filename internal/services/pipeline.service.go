package services

import (
	"context"
	"sort"
	"time"

	"killprocess/internal/logging"
	"killprocess/internal/models"

	"go.uber.org/zap"
)

// Rank orders items Application, Service, Executable. Items of the same
// type keep their input order.
func Rank(items []models.ClassifiedApplication) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Type.Rank() < items[j].Type.Rank()
	})
}

// Assemble runs the whole pipeline over raw process-table text: filter,
// classify, rank. Icon failures are logged and never drop an item.
func Assemble(raw, query string, icons IconResolver, logger *logging.Logger) *models.ResultList {
	if logger == nil {
		logger = logging.NewNop()
	}

	records := FilterLines(raw, query)
	items := make([]models.ClassifiedApplication, 0, len(records))
	for _, record := range records {
		item, err := Classify(record, icons)
		if err != nil {
			logger.Warn("using default icon",
				zap.String("pid", record.PID),
				zap.String("path", record.CommandPath),
				zap.Error(err),
			)
		}
		items = append(items, item)
	}

	Rank(items)
	return models.NewResultList(items...)
}

// ProcessService answers searches against a fresh snapshot of the process table.
type ProcessService struct {
	lister      Lister
	defaultIcon string
	reader      ManifestReader
	logger      *logging.Logger
	metrics     *Metrics
}

// NewProcessService creates a service. A nil reader reads plists from disk;
// logger and metrics may be nil.
func NewProcessService(lister Lister, defaultIcon string, reader ManifestReader, logger *logging.Logger, metrics *Metrics) *ProcessService {
	if logger == nil {
		logger = logging.NewNop()
	}
	if reader == nil {
		reader = PlistManifestReader{}
	}
	return &ProcessService{
		lister:      lister,
		defaultIcon: defaultIcon,
		reader:      reader,
		logger:      logger,
		metrics:     metrics,
	}
}

// Search lists processes once and returns the ranked matches for query.
// An empty query still lists processes and keeps every row whose executable
// part has no hyphen. Each call uses its own icon cache, discarded when the
// call returns.
func (s *ProcessService) Search(ctx context.Context, query string) (*models.ResultList, error) {
	start := time.Now()
	raw, err := s.lister.List(ctx)
	s.metrics.observeListing(time.Since(start).Seconds())
	if err != nil {
		s.metrics.recordSearch("error")
		return nil, err
	}

	icons := NewIconCache(s.defaultIcon, s.reader, s.metrics)
	list := Assemble(raw, query, icons, s.logger)

	s.metrics.recordResults(list.Items)
	s.metrics.recordSearch("ok")
	s.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("results", len(list.Items)),
		zap.Int("cached_icons", icons.Len()-1),
		zap.Duration("duration", time.Since(start)),
	)
	return list, nil
}
