package budget_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/budget"
	"github.com/yudapramata/rab-management/internal/core/events"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Budget Handler", func() {
	var (
		mockRepo *MockRepository
		notifier *MockNotifier
		handler  *budget.Handler
		router   *chi.Mux
	)

	asUser := func(req *http.Request, role string) *http.Request {
		user := &internal.ActingUser{ID: 10, Email: "padil@mail.com", Role: role}
		return req.WithContext(internal.ContextWithUser(req.Context(), user))
	}

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		notifier = &MockNotifier{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus := events.NewEventBus(logger)
		service := budget.NewService(mockRepo, notifier, bus, logger)
		handler = budget.NewHandler(service)

		router = chi.NewRouter()
		router.Route("/plans/{id}", func(r chi.Router) {
			r.Get("/categories/{key}", handler.GetCategory)
			r.Put("/categories/{key}", handler.SubmitCategory)
			r.Patch("/categories/{key}/status", handler.SetItemStatus)
			r.Patch("/status", handler.UpdatePlanStatus)
		})

		supervisorID := int64(7)
		mockRepo.AddPlan(&budget.BudgetPlan{
			ID:           1,
			ProjectName:  "Renovasi Rumah Cilodong",
			PlanStatus:   budget.PlanStatusDraft,
			SupervisorID: &supervisorID,
		})
	})

	Describe("PUT /plans/{id}/categories/{key}", func() {
		It("should store the submission and echo the normalized document", func() {
			body := `[{"nama": "MR 1", "items": [{"item": "Semen", "qty": 10, "harga_satuan": "Rp 65.000"}]}]`
			req := asUser(httptest.NewRequest(http.MethodPut, "/plans/1/categories/material_tambahan", bytes.NewBufferString(body)), internal.RoleSupervisor)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp budget.CategoryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.PlanID).To(Equal(int64(1)))
			Expect(resp.Submitted).To(Equal(1))
			Expect(resp.Batches).To(HaveLen(1))
			Expect(resp.Batches[0].Items[0].Subtotal).To(Equal(650000.0))
		})

		It("should reject a malformed body with 400", func() {
			req := asUser(httptest.NewRequest(http.MethodPut, "/plans/1/categories/material_tambahan", bytes.NewBufferString(`{"oops": true}`)), internal.RoleSupervisor)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 404 for an unknown plan", func() {
			req := asUser(httptest.NewRequest(http.MethodPut, "/plans/999/categories/material_tambahan", bytes.NewBufferString(`[]`)), internal.RoleSupervisor)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should refuse an unauthenticated request", func() {
			req := httptest.NewRequest(http.MethodPut, "/plans/1/categories/material_tambahan", bytes.NewBufferString(`[]`))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GET /plans/{id}/categories/{key}", func() {
		It("should return the empty structure for an unpopulated category", func() {
			req := asUser(httptest.NewRequest(http.MethodGet, "/plans/1/categories/tukang", nil), internal.RoleSupervisor)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp budget.CategoryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Sections).To(BeEmpty())
			Expect(resp.Submitted).To(Equal(0))
		})

		It("should reject an invalid plan id", func() {
			req := asUser(httptest.NewRequest(http.MethodGet, "/plans/abc/categories/tukang", nil), internal.RoleSupervisor)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PATCH /plans/{id}/categories/{key}/status", func() {
		BeforeEach(func() {
			payload := json.RawMessage(`[{"debit": 100, "termin": [{"tanggal": "2025-01-10", "kredit": 50}]}]`)
			service := budget.NewService(mockRepo, notifier, events.NewEventBus(slog.Default()), slog.Default())
			_, err := service.SubmitCategory(context.Background(), 1, budget.CategoryTukang, payload)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should apply the decision", func() {
			body := `{"status": "Disetujui", "locator": {"outer_index": 0, "inner_index": 0}}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/categories/tukang/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp budget.CategoryResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Sections[0].Termins[0].Status).To(Equal(budget.StatusApproved))
			Expect(notifier.Notes()).To(HaveLen(1))
		})

		It("should answer 422 for a non-decision status", func() {
			body := `{"status": "Pengajuan", "locator": {"outer_index": 0, "inner_index": 0}}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/categories/tukang/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnprocessableEntity))
		})

		It("should answer 404 when the locator misses", func() {
			body := `{"status": "Disetujui", "locator": {"outer_index": 9, "inner_index": 0}}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/categories/tukang/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should require a status field", func() {
			body := `{"locator": {"outer_index": 0, "inner_index": 0}}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/categories/tukang/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PATCH /plans/{id}/status", func() {
		It("should advance the lifecycle", func() {
			body := `{"status": "on_progress"}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var plan budget.BudgetPlan
			Expect(json.Unmarshal(rec.Body.Bytes(), &plan)).To(Succeed())
			Expect(plan.PlanStatus).To(Equal(budget.PlanStatusOnProgress))
		})

		It("should reject an unknown lifecycle status", func() {
			body := `{"status": "done"}`
			req := asUser(httptest.NewRequest(http.MethodPatch, "/plans/1/status", bytes.NewBufferString(body)), internal.RoleAdmin)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
