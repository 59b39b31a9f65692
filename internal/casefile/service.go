// Package casefile implements the record reconciliation engine: given a
// free-text query or a file number it assembles the unified per-file
// view from the four datasets of whichever backend serves the request.
package casefile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/starford/casefile/internal/models"
	"github.com/starford/casefile/internal/records"
	"github.com/starford/casefile/internal/source"
)

// searchFields lists, per dataset, the fields a free-text query is
// matched against.
var searchFields = map[source.Kind][]string{
	source.KindClient: {
		records.FieldFileNumber, records.FieldFileName,
		"client1_first_name", "client1_last_name",
		"client2_first_name", "client2_last_name",
		"client3_first_name", "client3_last_name",
		"client4_first_name", "client4_last_name",
	},
	source.KindIntake: {records.FieldFileNumber},
	source.KindCounselor: {
		records.FieldFileNumber,
		records.FieldCounselorFirstName, records.FieldCounselorLastName,
	},
	source.KindSession: {records.FieldFileNumber},
}

// Service aggregates case files from one backend. It holds no request
// state; one instance per backend is shared across requests.
type Service struct {
	src          source.Source
	logger       *slog.Logger
	sessionLimit int // cap on sessions per aggregate in search responses; 0 = unlimited
}

// NewService creates an aggregator over src. sessionLimit bounds the
// session history attached to each search result (direct file lookups
// are never capped).
func NewService(src source.Source, logger *slog.Logger, sessionLimit int) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{src: src, logger: logger, sessionLimit: sessionLimit}
}

// Backend names the underlying source for logging and diagnostics.
func (s *Service) Backend() string { return s.src.Name() }

// Get assembles the aggregate for one file number. Zero matches across
// all four datasets is not an error: the result is a defined empty
// aggregate and the caller decides whether that is a not-found.
func (s *Service) Get(ctx context.Context, fileNumber string) (*models.FileAggregate, error) {
	fileNumber = strings.TrimSpace(fileNumber)
	agg := &models.FileAggregate{
		FileNumber: fileNumber,
		Providers:  []models.ProviderEntry{},
		Sessions:   []models.SessionEntry{},
	}

	clients, err := s.src.ByFileNumber(ctx, source.KindClient, fileNumber)
	if err != nil {
		return nil, fmt.Errorf("casefile: load client: %w", err)
	}
	intakes, err := s.src.ByFileNumber(ctx, source.KindIntake, fileNumber)
	if err != nil {
		return nil, fmt.Errorf("casefile: load intake: %w", err)
	}

	// Merge the first client row with the first intake row; intake
	// fields win on conflict. Either side may be absent.
	if len(clients) > 0 || len(intakes) > 0 {
		merged := records.Record{}
		var nameSource records.Record
		if len(clients) > 0 {
			nameSource = clients[0]
			for k, v := range clients[0] {
				merged[k] = v
			}
		}
		if len(intakes) > 0 {
			if nameSource == nil {
				nameSource = intakes[0]
			}
			for k, v := range intakes[0] {
				merged[k] = v
			}
		}
		client := make(models.ClientAggregate, len(merged)+1)
		for k, v := range merged {
			client[k] = v
		}
		names := records.ClientNames(nameSource)
		client["clientNames"] = names
		agg.Client = client
		agg.Name = strings.Join(names, ", ")
	}

	counselors, err := s.src.ByFileNumber(ctx, source.KindCounselor, fileNumber)
	if err != nil {
		return nil, fmt.Errorf("casefile: load counselors: %w", err)
	}
	for _, c := range counselors {
		agg.Providers = append(agg.Providers, projectProvider(c))
	}

	sessions, err := s.src.ByFileNumber(ctx, source.KindSession, fileNumber)
	if err != nil {
		return nil, fmt.Errorf("casefile: load sessions: %w", err)
	}
	for _, sess := range sessions {
		agg.Sessions = append(agg.Sessions, projectSession(sess))
	}

	return agg, nil
}

// Search resolves a free-text query to an ordered list of aggregates.
// All-digit queries are exact file-number lookups on every backend;
// anything else substring-matches the per-dataset field lists. File
// numbers keep first-seen order; sessions in each result are sorted
// newest-first (stable) and capped by the configured limit.
func (s *Service) Search(ctx context.Context, query string) ([]models.FileAggregate, error) {
	fileNumbers, err := s.candidateFileNumbers(ctx, query)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("search: candidates resolved",
		slog.String("backend", s.src.Name()),
		slog.String("query", query),
		slog.Int("file_numbers", len(fileNumbers)))

	results := make([]models.FileAggregate, 0, len(fileNumbers))
	for _, fn := range fileNumbers {
		agg, err := s.Get(ctx, fn)
		if err != nil {
			return nil, err
		}
		sortSessionsDesc(agg.Sessions)
		if s.sessionLimit > 0 && len(agg.Sessions) > s.sessionLimit {
			agg.Sessions = agg.Sessions[:s.sessionLimit]
		}
		results = append(results, *agg)
	}
	return results, nil
}

func (s *Service) candidateFileNumbers(ctx context.Context, query string) ([]string, error) {
	if records.IsFileNumberQuery(query) {
		return []string{strings.TrimSpace(query)}, nil
	}

	var ordered []string
	seen := map[string]bool{}
	for _, kind := range source.Kinds {
		matches, err := s.src.Search(ctx, kind, query, searchFields[kind])
		if err != nil {
			return nil, fmt.Errorf("casefile: search %s: %w", kind, err)
		}
		for _, r := range matches {
			fn := r.FileNumber()
			if fn == "" || seen[fn] {
				continue
			}
			seen[fn] = true
			ordered = append(ordered, fn)
		}
	}
	return ordered, nil
}

func projectProvider(r records.Record) models.ProviderEntry {
	return models.ProviderEntry{
		Name: records.JoinName(
			r.Field(records.FieldCounselorFirstName),
			r.Field(records.FieldCounselorLastName)),
		TherapyType:    r.Field(records.FieldTherapyType),
		IntakeDate:     r.Field(records.FieldIntakeDate),
		EndDate:        r.Field(records.FieldEndDate),
		Location:       r.Field(records.FieldLocation),
		Status:         r.Field(records.FieldStatus),
		LocationDetail: r.Field(records.FieldLocationDetail),
	}
}

func projectSession(r records.Record) models.SessionEntry {
	return models.SessionEntry{
		Date:             r.Field(records.FieldSessionDate),
		SupervisionGroup: r.Field(records.FieldSupervisionGroup),
		Status:           r.Field(records.FieldSessionStatus),
		PaymentStatus:    r.Field(records.FieldSessionPaymentStatus),
		PaymentMethod:    r.Field(records.FieldPaymentMethod),
		Fee:              r.Field(records.FieldSessionFee),
		Notes:            r.Field(records.FieldSessionNote),
	}
}

// sortSessionsDesc orders sessions newest-first. Unparseable dates sink
// below parseable ones; ties keep their original relative order.
func sortSessionsDesc(sessions []models.SessionEntry) {
	sort.SliceStable(sessions, func(i, j int) bool {
		di, iok := records.ParseDate(sessions[i].Date)
		dj, jok := records.ParseDate(sessions[j].Date)
		if iok && jok {
			return di.After(dj)
		}
		return iok && !jok
	})
}
