package notification_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/yudapramata/rab-management/internal/core/events"
	"github.com/yudapramata/rab-management/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Notification Event Handler", func() {
	var (
		mockRepo *MockRepository
		admins   *MockAdminDirectory
		handler  *notification.EventHandler
		ctx      context.Context
	)

	BeforeEach(func() {
		mockRepo = &MockRepository{}
		admins = &MockAdminDirectory{ids: []int64{10, 11}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		dispatcher := notification.NewDispatcher(mockRepo, &MockDeviceResolver{tokens: map[int64][]string{}}, &MockPushSender{}, admins, logger)
		handler = notification.NewEventHandler(dispatcher, logger)
		ctx = context.Background()
	})

	Describe("HandleCategorySubmitted", func() {
		It("should notify every administrator about the new submissions", func() {
			event := events.NewCategorySubmittedEvent(3, "Renovasi Dapur", "material_tambahan", "Material Tambahan", 2)

			err := handler.HandleCategorySubmitted(ctx, event)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.records).To(HaveLen(2))

			record := mockRepo.records[0]
			Expect(record.Title).To(Equal("Pengajuan Baru: Material Tambahan"))
			Expect(record.Body).To(ContainSubstring("2 pengajuan baru"))
			Expect(record.ActionPath).To(Equal("/plans/3/categories/material_tambahan"))
		})

		It("should reject an event of the wrong type", func() {
			err := handler.HandleCategorySubmitted(ctx, events.BaseEvent{Type: events.EventTypeCategorySubmitted})
			Expect(err).To(HaveOccurred())
		})
	})
})
