package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/draftforge/draft-engine/pkg/apperrors"
	"github.com/draftforge/draft-engine/pkg/jsonutil"
	"github.com/draftforge/draft-engine/pkg/llm"
	"github.com/draftforge/draft-engine/pkg/models"
	"github.com/draftforge/draft-engine/pkg/prompts"
	"github.com/draftforge/draft-engine/pkg/repositories"
	"github.com/draftforge/draft-engine/pkg/retry"
)

// generationTemperature is used for all document-generation model calls.
const generationTemperature = 0.7

// OutlineRequest describes an outline-generation request.
// CustomTitles, when set, bypasses the model entirely.
type OutlineRequest struct {
	ProjectID    int64
	Topic        string
	NumSlides    int
	CustomTitles []string
}

// GenerationService defines the interface for model-backed content operations.
type GenerationService interface {
	// GenerateOutline materializes ordered content rows for a project,
	// either from explicit titles or from a model-generated outline.
	GenerateOutline(ctx context.Context, userID int64, req *OutlineRequest) ([]*models.Content, error)

	// GenerateSection fills in one section's body via the model.
	GenerateSection(ctx context.Context, userID, projectID, contentID int64) (*models.Content, error)

	// Refine rewrites a section's body per the instruction and records
	// an immutable audit row.
	Refine(ctx context.Context, userID, contentID int64, instruction string) (*models.Content, error)
}

// generationService implements GenerationService.
type generationService struct {
	projectRepo    repositories.ProjectRepository
	contentRepo    repositories.ContentRepository
	refinementRepo repositories.RefinementRepository
	client         llm.TextClient // nil when no model is configured
	callTimeout    time.Duration
	retryCfg       *retry.Config
	logger         *zap.Logger
}

// NewGenerationService creates a new generation service with dependencies.
// client may be nil when no model is configured; model-backed operations
// then fail with apperrors.ErrModelUnavailable.
func NewGenerationService(
	projectRepo repositories.ProjectRepository,
	contentRepo repositories.ContentRepository,
	refinementRepo repositories.RefinementRepository,
	client llm.TextClient,
	callTimeout time.Duration,
	maxRetries int,
	logger *zap.Logger,
) GenerationService {
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	return &generationService{
		projectRepo:    projectRepo,
		contentRepo:    contentRepo,
		refinementRepo: refinementRepo,
		client:         client,
		callTimeout:    callTimeout,
		retryCfg:       retry.ModelCallConfig(maxRetries),
		logger:         logger,
	}
}

// callModel invokes the model under the configured timeout with a bounded
// retry. Deterministic upstream errors are never retried.
func (s *generationService) callModel(ctx context.Context, prompt, systemMessage string) (string, error) {
	if s.client == nil {
		return "", apperrors.ErrModelUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	return retry.DoWithResult(callCtx, s.retryCfg, func() (string, error) {
		return s.client.GenerateText(callCtx, prompt, systemMessage, generationTemperature)
	})
}

// GenerateOutline materializes ordered content rows for a project.
func (s *generationService) GenerateOutline(ctx context.Context, userID int64, req *OutlineRequest) ([]*models.Content, error) {
	project, err := s.projectRepo.GetOwned(ctx, req.ProjectID, userID)
	if err != nil {
		return nil, err
	}

	titles := req.CustomTitles
	if len(titles) == 0 {
		prompt := prompts.BuildOutlinePrompt(project.DocType, req.Topic, req.NumSlides)

		response, err := s.callModel(ctx, prompt, prompts.OutlineSystemMessage)
		if err != nil {
			return nil, err
		}

		titles, err = parseOutlineTitles(response)
		if err != nil {
			s.logger.Warn("Model returned unparseable outline",
				zap.Int64("project_id", project.ID),
				zap.Error(err))
			return nil, fmt.Errorf("parse outline: %w", err)
		}
	}

	// Append after any existing sections so section_order stays dense
	// and unambiguous for projects that already have content.
	startOrder, err := s.contentRepo.NextOrder(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	contents := make([]*models.Content, 0, len(titles))
	for i, title := range titles {
		contents = append(contents, &models.Content{
			ProjectID:    project.ID,
			SectionOrder: startOrder + i,
			Title:        title,
			ContentText:  "",
			Metadata:     models.JSONBMap{},
		})
	}

	// Single transaction: no partial rows on failure
	if err := s.contentRepo.CreateBatch(ctx, contents); err != nil {
		return nil, err
	}

	s.logger.Info("Generated outline",
		zap.Int64("project_id", project.ID),
		zap.Int("sections", len(contents)),
		zap.Bool("custom_titles", len(req.CustomTitles) > 0))

	return contents, nil
}

// parseOutlineTitles decodes the model response as a JSON array of titles.
// Code fences are stripped and scalar non-string titles are tolerated.
func parseOutlineTitles(response string) ([]string, error) {
	raw, err := llm.ParseJSONResponse[[]json.RawMessage](response)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("outline is empty")
	}

	titles := make([]string, 0, len(raw))
	for _, item := range raw {
		title := jsonutil.FlexibleStringValue(item)
		if title == "" {
			return nil, fmt.Errorf("outline contains an empty title")
		}
		titles = append(titles, title)
	}

	return titles, nil
}

// GenerateSection fills in one section's body via the model.
func (s *generationService) GenerateSection(ctx context.Context, userID, projectID, contentID int64) (*models.Content, error) {
	// Caller must own the parent project, not just name a valid pair
	project, err := s.projectRepo.GetOwned(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.GetInProject(ctx, contentID, projectID)
	if err != nil {
		return nil, err
	}

	prompt := prompts.BuildSectionPrompt(content.Title, project.Title, project.DocType)

	response, err := s.callModel(ctx, prompt, prompts.SectionSystemMessage)
	if err != nil {
		return nil, err
	}

	// Stored verbatim, no parsing or format validation
	if err := s.contentRepo.UpdateText(ctx, content.ID, response); err != nil {
		return nil, err
	}
	content.ContentText = response

	return content, nil
}

// Refine rewrites a section's body and appends an audit row atomically.
func (s *generationService) Refine(ctx context.Context, userID, contentID int64, instruction string) (*models.Content, error) {
	content, err := s.contentRepo.Get(ctx, contentID)
	if err != nil {
		return nil, err
	}

	// Ownership verified via the parent project
	if _, err := s.projectRepo.GetOwned(ctx, content.ProjectID, userID); err != nil {
		return nil, apperrors.ErrForbidden
	}

	prompt := prompts.BuildRefinePrompt(content.ContentText, instruction)

	refined, err := s.callModel(ctx, prompt, prompts.RefineSystemMessage)
	if err != nil {
		return nil, err
	}

	if _, err := s.refinementRepo.ApplyRefinement(ctx, content.ID, instruction, content.ContentText, refined); err != nil {
		return nil, err
	}
	content.ContentText = refined

	return content, nil
}

// Ensure generationService implements GenerationService at compile time.
var _ GenerationService = (*generationService)(nil)
