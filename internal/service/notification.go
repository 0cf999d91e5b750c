package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/phoenixvc/chaufher/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationDriverAssigned  NotificationType = "DRIVER_ASSIGNED"
	NotificationRideStatus      NotificationType = "RIDE_STATUS_UPDATE"
	NotificationRideReminder    NotificationType = "RIDE_REMINDER"
	NotificationRideCancelled   NotificationType = "RIDE_CANCELLED"
	NotificationNoDriverFound   NotificationType = "NO_DRIVER_FOUND"
	NotificationPaymentSuccess  NotificationType = "PAYMENT_SUCCESS"
	NotificationPaymentFailed   NotificationType = "PAYMENT_FAILED"
	NotificationPaymentRefunded NotificationType = "PAYMENT_REFUNDED"
	NotificationDocumentExpired NotificationType = "DOCUMENT_EXPIRED"
)

// Notification represents a notification to be delivered.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]any
	CreatedAt   time.Time
}

// NotificationService handles notification dispatch. Delivery is log-only;
// failures never escalate into the caller's error path.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyDriverAssigned tells the rider a driver was assigned to their booking.
func (s *NotificationService) NotifyDriverAssigned(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationDriverAssigned,
		RecipientID: ride.RiderID,
		Title:       "Driver Assigned",
		Message:     fmt.Sprintf("A driver has been assigned to ride %s", ride.RideNumber),
		Data: map[string]any{
			"ride_id":   ride.ID,
			"driver_id": ride.DriverID,
			"pickup_at": ride.ScheduledPickupTime,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideStatus tells the rider about a lifecycle status change.
func (s *NotificationService) NotifyRideStatus(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideStatus,
		RecipientID: ride.RiderID,
		Title:       "Ride Update",
		Message:     fmt.Sprintf("Ride %s is now %s", ride.RideNumber, ride.Status),
		Data: map[string]any{
			"ride_id": ride.ID,
			"status":  string(ride.Status),
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideReminder reminds the rider of an upcoming pickup.
func (s *NotificationService) NotifyRideReminder(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideReminder,
		RecipientID: ride.RiderID,
		Title:       "Upcoming Ride",
		Message:     fmt.Sprintf("Ride %s picks up at %s", ride.RideNumber, ride.ScheduledPickupTime.Format(time.RFC822)),
		Data: map[string]any{
			"ride_id":   ride.ID,
			"pickup_at": ride.ScheduledPickupTime,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRideCancelled tells the party that did not cancel.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride) error {
	recipientID := ride.RiderID
	if ride.CancelledByID == ride.RiderID {
		recipientID = ride.DriverID
	}
	if recipientID == "" {
		return nil
	}

	return s.send(ctx, Notification{
		Type:        NotificationRideCancelled,
		RecipientID: recipientID,
		Title:       "Ride Cancelled",
		Message:     fmt.Sprintf("Ride %s was cancelled", ride.RideNumber),
		Data: map[string]any{
			"ride_id": ride.ID,
			"reason":  ride.CancellationReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyNoDriverFound tells the rider no driver could be matched.
func (s *NotificationService) NotifyNoDriverFound(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationNoDriverFound,
		RecipientID: ride.RiderID,
		Title:       "No Driver Found",
		Message:     fmt.Sprintf("We could not find a driver for ride %s", ride.RideNumber),
		Data:        map[string]any{"ride_id": ride.ID},
		CreatedAt:   time.Now(),
	})
}

// NotifyPaymentSucceeded tells the rider their payment went through.
func (s *NotificationService) NotifyPaymentSucceeded(ctx context.Context, payment *domain.Payment, riderID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentSuccess,
		RecipientID: riderID,
		Title:       "Payment Successful",
		Message:     fmt.Sprintf("Payment of %s was successful", payment.Amount),
		Data: map[string]any{
			"payment_id": payment.ID,
			"ride_id":    payment.RideID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed tells the rider their payment failed.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, payment *domain.Payment, riderID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: riderID,
		Title:       "Payment Failed",
		Message:     fmt.Sprintf("Payment of %s failed. Please try again.", payment.Amount),
		Data: map[string]any{
			"payment_id": payment.ID,
			"ride_id":    payment.RideID,
			"reason":     payment.FailureReason,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentRefunded tells the rider their payment was refunded.
func (s *NotificationService) NotifyPaymentRefunded(ctx context.Context, payment *domain.Payment, riderID string) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentRefunded,
		RecipientID: riderID,
		Title:       "Payment Refunded",
		Message:     fmt.Sprintf("Payment of %s was refunded", payment.Amount),
		Data: map[string]any{
			"payment_id": payment.ID,
			"ride_id":    payment.RideID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyDocumentExpired tells the driver a credential lapsed.
func (s *NotificationService) NotifyDocumentExpired(ctx context.Context, doc *domain.DriverDocument) error {
	return s.send(ctx, Notification{
		Type:        NotificationDocumentExpired,
		RecipientID: doc.DriverID,
		Title:       "Document Expired",
		Message:     fmt.Sprintf("Your %s has expired. Please upload a new one.", doc.Type),
		Data: map[string]any{
			"document_id": doc.ID,
			"doc_type":    string(doc.Type),
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
