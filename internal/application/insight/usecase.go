package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/cognitiva-api/internal/application/dto"
	"github.com/jhoicas/cognitiva-api/internal/application/ports"
	"github.com/jhoicas/cognitiva-api/internal/domain"
	"github.com/jhoicas/cognitiva-api/internal/domain/entity"
	"github.com/jhoicas/cognitiva-api/internal/domain/repository"
	"github.com/jhoicas/cognitiva-api/pkg/logger"
)

// LLMTimeout tope de cada llamada al proveedor de IA.
const LLMTimeout = 30 * time.Second

// RecordLoader lee alumnos verificando el alcance del actor.
type RecordLoader interface {
	GetByID(ctx context.Context, actor domain.Actor, studentID string) (*dto.StudentResponse, error)
	FullData(ctx context.Context, actor domain.Actor, studentID string) (*dto.StudentFullDataResponse, error)
}

// UseCase orquesta la generación de insights: ficha del alumno → LLM → persistencia.
type UseCase struct {
	records RecordLoader
	repo    repository.InsightRepository
	llm     ports.LLMService
	lock    ports.GenerationLock
	log     *logger.Logger
	timeout time.Duration
}

// NewUseCase construye el caso de uso inyectando sus puertos.
func NewUseCase(records RecordLoader, repo repository.InsightRepository, llm ports.LLMService, lock ports.GenerationLock, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{records: records, repo: repo, llm: llm, lock: lock, log: log, timeout: LLMTimeout}
}

// Generate redacta y guarda un insight sobre el alumno. Solo una generación por alumno
// a la vez: si ya hay una en curso devuelve domain.ErrGenerationInProgress.
func (uc *UseCase) Generate(ctx context.Context, actor domain.Actor, studentID string, in dto.GenerateInsightRequest) (*dto.InsightResponse, error) {
	if in.Prompt == "" {
		return nil, domain.ErrInvalidInput
	}
	record, err := uc.records.FullData(ctx, actor, studentID)
	if err != nil {
		return nil, err
	}

	key := "insight:" + studentID
	token, ok, err := uc.lock.TryLock(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("insight: lock: %w", err)
	}
	if !ok {
		return nil, domain.ErrGenerationInProgress
	}
	defer func() {
		// Se libera aunque el contexto de la petición ya esté cancelado.
		if err := uc.lock.Unlock(context.WithoutCancel(ctx), key, token); err != nil {
			uc.log.Warn().Err(err).Str("student_id", studentID).Msg("insight: liberar lock")
		}
	}()

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("insight: serializar ficha: %w", err)
	}

	llmCtx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	started := time.Now()
	content, err := uc.llm.GenerateInsight(llmCtx, in.Prompt, payload)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			uc.log.Warn().Str("student_id", studentID).Dur("elapsed", time.Since(started)).Msg("insight: timeout del proveedor")
		}
		return nil, fmt.Errorf("insight: %w", err)
	}

	ins := &entity.Insight{
		ID:        uuid.New().String(),
		StudentID: studentID,
		AuthorID:  actor.UserID,
		Prompt:    in.Prompt,
		Content:   content,
		Provider:  uc.llm.Name(),
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, ins); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("student_id", studentID).
		Str("author_id", actor.UserID).
		Str("provider", ins.Provider).
		Dur("elapsed", time.Since(started)).
		Msg("insight generado")
	out := ToResponse(ins)
	return &out, nil
}

// History devuelve los insights ya generados para el alumno.
func (uc *UseCase) History(ctx context.Context, actor domain.Actor, studentID string) ([]dto.InsightResponse, error) {
	if _, err := uc.records.GetByID(ctx, actor, studentID); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InsightResponse, 0, len(list))
	for _, i := range list {
		items = append(items, ToResponse(i))
	}
	return items, nil
}

// ToResponse mapea la entidad al DTO.
func ToResponse(i *entity.Insight) dto.InsightResponse {
	return dto.InsightResponse{
		ID:        i.ID,
		AlunoID:   i.StudentID,
		AutorID:   i.AuthorID,
		Prompt:    i.Prompt,
		Conteudo:  i.Content,
		Provedor:  i.Provider,
		CreatedAt: i.CreatedAt,
	}
}
