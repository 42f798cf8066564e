package store

import "github.com/magabrotheeeer/nutrition-app/internal/models"

// Наборы возможностей для бесплатного и премиум-доступа.
var (
	FreeFeatures = []string{
		"BMI calculator",
		"Daily macro calculation",
		"Body measurements",
	}
	PremiumFeatures = []string{
		"BMI calculator",
		"Daily macro calculation",
		"Body measurements",
		"Custom macro targets",
		"Goal tracking",
		"Progress analytics",
		"Meal plans",
		"Cloud sync across devices",
		"Priority support",
	}
)

// Значения по умолчанию для первого запуска и после выхода.
const (
	DefaultGender     = models.GenderMale
	DefaultAge        = 21
	DefaultHeight     = 180.0
	DefaultActivity   = 1.55
	DefaultWeight     = 72.0
	DefaultBodyFat    = 10.0
	DefaultGoalWeight = 82.0
	DefaultGoalBF     = 8.0
)

// DefaultProfile возвращает профиль со значениями по умолчанию.
func DefaultProfile() models.Profile {
	weight := DefaultWeight
	bf := DefaultBodyFat
	return models.Profile{
		Common: models.Common{},
		Subscription: models.Subscription{
			Tier: models.TierFree,
		},
		Body: models.Body{
			Gender: DefaultGender,
			Current: models.BodyMeasurements{
				Age:      DefaultAge,
				Height:   DefaultHeight,
				Activity: DefaultActivity,
				Weight:   &weight,
				BF:       &bf,
			},
			Goal: models.BodyGoal{
				Weight: DefaultGoalWeight,
				BF:     DefaultGoalBF,
			},
		},
		Macros: models.Macros{},
		Purchase: models.Purchase{
			Type:     models.PurchaseFree,
			Features: []string{},
		},
	}
}
