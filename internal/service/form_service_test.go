package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/dto"
	"github.com/jssanchez03/backend-istla-evaluacion-docente-sub001/internal/model"
)

func setupTestFormService() (FormService, *mocks) {
	repo, m := newTestRepo()
	seedCatalog(m)
	return NewFormService(repo, zap.NewNop()), m
}

func TestFormService_CreateWithQuestions(t *testing.T) {
	svc, m := setupTestFormService()

	resp, err := svc.Create(context.Background(), &dto.CreateFormRequest{
		Name:     " Autoevaluación 2025-I ",
		Type:     model.FormTypeSelf,
		PeriodID: "P1",
		Questions: []dto.CreateQuestionRequest{
			{Text: "Planifica sus clases", Type: model.QuestionScale},
			{Text: "Comentarios", Type: model.QuestionOpen, Order: 10},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.Name != "Autoevaluación 2025-I" || !resp.Active {
		t.Errorf("unexpected form: %+v", resp)
	}
	if len(resp.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(resp.Questions))
	}
	if resp.Questions[0].Order != 1 || resp.Questions[1].Order != 10 {
		t.Errorf("unexpected question order: %d, %d", resp.Questions[0].Order, resp.Questions[1].Order)
	}
	if len(m.question.questions) != 2 {
		t.Errorf("questions were not stored")
	}
}

func TestFormService_Create_Invalid(t *testing.T) {
	svc, _ := setupTestFormService()

	_, err := svc.Create(context.Background(), &dto.CreateFormRequest{Name: "X form", Type: "encuesta", PeriodID: "P1"})
	if !errors.Is(err, ErrInvalidFormType) {
		t.Errorf("expected ErrInvalidFormType, got %v", err)
	}
	_, err = svc.Create(context.Background(), &dto.CreateFormRequest{Name: "X form", Type: model.FormTypeCo, PeriodID: "P9"})
	if !errors.Is(err, ErrPeriodNotFound) {
		t.Errorf("expected ErrPeriodNotFound, got %v", err)
	}
}

func TestFormService_GetAndList(t *testing.T) {
	svc, _ := setupTestFormService()
	created, _ := svc.Create(context.Background(), &dto.CreateFormRequest{
		Name: "Hetero", Type: model.FormTypeHetero, PeriodID: "P1",
		Questions: []dto.CreateQuestionRequest{{Text: "Puntualidad", Type: model.QuestionScale}},
	})
	_, _ = svc.Create(context.Background(), &dto.CreateFormRequest{Name: "Co", Type: model.FormTypeCo, PeriodID: "P2"})

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Questions) != 1 {
		t.Errorf("expected questions to be loaded, got %d", len(got.Questions))
	}

	list, err := svc.List(context.Background(), &dto.FormListRequest{PeriodID: "P1"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].Type != model.FormTypeHetero {
		t.Errorf("unexpected filtered list: %+v", list)
	}

	if _, err := svc.Get(context.Background(), 999); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("expected ErrFormNotFound, got %v", err)
	}
}

func TestFormService_Update(t *testing.T) {
	svc, _ := setupTestFormService()
	created, _ := svc.Create(context.Background(), &dto.CreateFormRequest{Name: "Co", Type: model.FormTypeCo, PeriodID: "P1"})
	inactive := false

	resp, err := svc.Update(context.Background(), created.ID, &dto.UpdateFormRequest{
		Name:        strPtr("Coevaluación"),
		Description: strPtr("Pares"),
		Active:      &inactive,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.Name != "Coevaluación" || resp.Description != "Pares" || resp.Active {
		t.Errorf("unexpected form: %+v", resp)
	}
}

func TestFormService_DeleteInUse(t *testing.T) {
	svc, m := setupTestFormService()
	created, _ := svc.Create(context.Background(), &dto.CreateFormRequest{Name: "Co", Type: model.FormTypeCo, PeriodID: "P1"})
	m.form.completed[created.ID] = 3

	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrFormInUse) {
		t.Errorf("expected ErrFormInUse, got %v", err)
	}

	m.form.completed[created.ID] = 0
	if err := svc.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := m.form.forms[created.ID]; ok {
		t.Error("form should be gone")
	}
	if err := svc.Delete(context.Background(), created.ID); !errors.Is(err, ErrFormNotFound) {
		t.Errorf("expected ErrFormNotFound, got %v", err)
	}
}

func TestFormService_Questions(t *testing.T) {
	svc, m := setupTestFormService()
	created, _ := svc.Create(context.Background(), &dto.CreateFormRequest{
		Name: "Auto", Type: model.FormTypeSelf, PeriodID: "P1",
		Questions: []dto.CreateQuestionRequest{{Text: "Uno", Type: model.QuestionScale}},
	})

	q, err := svc.AddQuestion(context.Background(), created.ID, &dto.CreateQuestionRequest{Text: "Dos", Type: model.QuestionScale})
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}
	if q.Order != 2 {
		t.Errorf("expected appended order 2, got %d", q.Order)
	}

	updated, err := svc.UpdateQuestion(context.Background(), q.ID, &dto.UpdateQuestionRequest{Text: strPtr("Dos bis"), Order: intPtr(5)})
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if updated.Text != "Dos bis" || updated.Order != 5 {
		t.Errorf("unexpected question: %+v", updated)
	}

	m.form.completed[created.ID] = 1
	if _, err := svc.UpdateQuestion(context.Background(), q.ID, &dto.UpdateQuestionRequest{Type: strPtr(model.QuestionOpen)}); !errors.Is(err, ErrFormInUse) {
		t.Errorf("type change on a used form: expected ErrFormInUse, got %v", err)
	}
	if _, err := svc.UpdateQuestion(context.Background(), q.ID, &dto.UpdateQuestionRequest{Text: strPtr("Dos ter")}); err != nil {
		t.Errorf("wording change on a used form should be allowed: %v", err)
	}
	if err := svc.DeleteQuestion(context.Background(), q.ID); !errors.Is(err, ErrFormInUse) {
		t.Errorf("expected ErrFormInUse, got %v", err)
	}

	m.form.completed[created.ID] = 0
	if err := svc.DeleteQuestion(context.Background(), q.ID); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}
	if err := svc.DeleteQuestion(context.Background(), q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound, got %v", err)
	}
}
