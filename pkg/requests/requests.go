package requests

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrValidation tüm istek doğrulama hatalarının sarmalandığı kök hatadır.
var ErrValidation = errors.New("geçersiz istek verisi")

var validate = validator.New()

// Parse gövdeyi hedef struct'a bağlar ve validator kurallarını çalıştırır.
// Handler'lar hata mesajını doğrudan istemciye dönebilir.
func Parse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: gövde çözümlenemedi", ErrValidation)
	}
	return Validate(out)
}

// Validate struct üzerindeki validate etiketlerini çalıştırır.
func Validate(out any) error {
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s alanı zorunludur", fe.Field())
	case "email":
		return fmt.Sprintf("%s geçerli bir e-posta olmalıdır", fe.Field())
	case "min":
		return fmt.Sprintf("%s en az %s olmalıdır", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s en fazla %s olmalıdır", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s %s'den büyük olmalıdır", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s şu değerlerden biri olmalıdır: %s", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s ile %s eşleşmiyor", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s alanı geçersiz (%s)", fe.Field(), fe.Tag())
	}
}

// --- Auth ---

type RegisterRequest struct {
	Name            string `json:"name" form:"name" validate:"required,min=2,max=150"`
	Email           string `json:"email" form:"email" validate:"required,email,max=150"`
	Password        string `json:"password" form:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"password_confirm" form:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name string `json:"name" form:"name" validate:"required,min=2,max=150"`
	Bio  string `json:"bio" form:"bio" validate:"max=2000"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"current_password" form:"current_password" validate:"required"`
	NewPassword        string `json:"new_password" form:"new_password" validate:"required,min=8,max=72"`
	NewPasswordConfirm string `json:"new_password_confirm" form:"new_password_confirm" validate:"required,eqfield=NewPassword"`
}

// --- Event ---

type EventRequest struct {
	Title         string    `json:"title" form:"title" validate:"required,min=2,max=255"`
	Description   string    `json:"description" form:"description" validate:"max=10000"`
	EventDateTime time.Time `json:"event_date_time" form:"event_date_time" validate:"required"`
	Timezone      string    `json:"timezone" form:"timezone" validate:"max=50"`
	LocationText  string    `json:"location_text" form:"location_text" validate:"max=255"`
	LocationURL   string    `json:"location_url" form:"location_url" validate:"omitempty,url,max=500"`
	IsEnabled     *bool     `json:"is_enabled" form:"is_enabled"`
}

// --- Invitation ---

type InviteGuestRequest struct {
	Email   string `json:"email" form:"email" validate:"required,email,max=150"`
	Message string `json:"message" form:"message" validate:"max=2000"`
}

type RespondInvitationRequest struct {
	Status string `json:"status" form:"status" validate:"required,oneof=ACCEPTED REJECTED"`
}

// --- Wishlist ---

type ArticleRequest struct {
	Name              string `json:"name" form:"name" validate:"required,min=2,max=255"`
	Description       string `json:"description" form:"description" validate:"max=10000"`
	PriceCents        int64  `json:"price_cents" form:"price_cents" validate:"required,gt=0"`
	ImageURL          string `json:"image_url" form:"image_url" validate:"omitempty,url,max=500"`
	Priority          int    `json:"priority" form:"priority" validate:"min=0,max=10"`
	QuantityRequested int    `json:"quantity_requested" form:"quantity_requested" validate:"required,min=1,max=1000"`
}

// --- Contribution ---

type CheckoutRequest struct {
	EventArticleID uint   `json:"event_article_id" form:"event_article_id" validate:"required,gt=0"`
	AmountCents    int64  `json:"amount_cents" form:"amount_cents" validate:"required,gt=0"`
	Message        string `json:"message" form:"message" validate:"max=2000"`
}

// --- Report ---

type ReportRequest struct {
	TargetType string `json:"target_type" form:"target_type" validate:"required,oneof=EVENT MEDIA"`
	TargetID   uint   `json:"target_id" form:"target_id" validate:"required,gt=0"`
	Reason     string `json:"reason" form:"reason" validate:"required,min=3,max=2000"`
}

// --- Media ---

type MediaCaptionRequest struct {
	Caption string `json:"caption" form:"caption" validate:"max=255"`
}
