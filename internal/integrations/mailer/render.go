package mailer

import (
	"fmt"
	"strings"

	"github.com/m04kA/MassageStudio-BookingService/internal/domain"
)

const (
	dateLayout = "Monday, January 2, 2006"
	timeLayout = "15:04 MST"
)

// Render формирует тему и текст письма о бронировании
func Render(emailType domain.EmailType, booking *domain.Booking, service *domain.Service) (string, string, error) {
	serviceName := "your appointment"
	if service != nil {
		serviceName = service.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", booking.CustomerName)

	var subject string
	switch emailType {
	case domain.EmailConfirmation:
		subject = "Booking confirmed: " + serviceName
		fmt.Fprintf(&b, "Your booking for %s is confirmed.\n\n", serviceName)
		writeDetails(&b, booking)
		if booking.DownpaymentPaidCents > 0 {
			fmt.Fprintf(&b, "Downpayment received: %s\n", formatCents(booking.DownpaymentPaidCents))
		}
		if booking.RemainingBalanceCents > 0 {
			fmt.Fprintf(&b, "Balance due at the studio: %s\n", formatCents(booking.RemainingBalanceCents))
		}

	case domain.EmailCancellation:
		subject = "Booking cancelled: " + serviceName
		fmt.Fprintf(&b, "Your booking for %s has been cancelled.\n\n", serviceName)
		writeDetails(&b, booking)

	case domain.EmailRefundNotification:
		subject = "Refund issued: " + serviceName
		fmt.Fprintf(&b, "A refund for your booking of %s has been issued.\n", serviceName)
		b.WriteString("It may take 5-10 business days to appear on your statement.\n\n")
		writeDetails(&b, booking)

	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedType, emailType)
	}

	fmt.Fprintf(&b, "\nBooking reference: %s\n", booking.ID)
	return subject, b.String(), nil
}

func writeDetails(b *strings.Builder, booking *domain.Booking) {
	fmt.Fprintf(b, "Date: %s\n", booking.StartTime.UTC().Format(dateLayout))
	fmt.Fprintf(b, "Time: %s - %s\n",
		booking.StartTime.UTC().Format(timeLayout), booking.EndTime.UTC().Format(timeLayout))
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}
