package models

import "time"

// Gender пол пользователя, влияет на расчёт базового обмена.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// SubscriptionTier уровень подписки.
type SubscriptionTier string

const (
	TierFree   SubscriptionTier = "free"
	TierActive SubscriptionTier = "active"
)

// PurchaseType тип покупки.
type PurchaseType string

const (
	PurchaseFree     PurchaseType = "free"
	PurchaseLifetime PurchaseType = "lifetime"
)

// Common общие данные профиля.
//
// Password хранится только в памяти клиента и никогда не сериализуется.
type Common struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Icon     int    `json:"icon"`
}

// Subscription состояние подписки.
type Subscription struct {
	Tier      SubscriptionTier `json:"tier"`
	StartDate *time.Time       `json:"start_date,omitempty"`
	EndDate   *time.Time       `json:"end_date,omitempty"`
	FreeTrial *bool            `json:"free_trial,omitempty"`
}

// BodyMeasurements текущие замеры тела.
type BodyMeasurements struct {
	Age      int      `json:"age"`
	Height   float64  `json:"height"`
	Activity float64  `json:"activity"`
	Weight   *float64 `json:"weight,omitempty"`
	BF       *float64 `json:"bf,omitempty"`
}

// BodyGoal целевые показатели.
type BodyGoal struct {
	Weight float64 `json:"weight"`
	BF     float64 `json:"bf"`
}

// Body данные о теле пользователя.
type Body struct {
	Gender  Gender           `json:"gender"`
	Current BodyMeasurements `json:"current"`
	Goal    BodyGoal         `json:"goal"`
}

// Macros суточная норма калорий и макронутриентов.
type Macros struct {
	Kcal     int `json:"kcal"`
	Proteins int `json:"proteins"`
	Carbs    int `json:"carbs"`
	Fats     int `json:"fats"`
}

// Purchase состояние покупки премиум‑доступа.
type Purchase struct {
	Type          PurchaseType `json:"type"`
	PurchasedAt   *time.Time   `json:"purchased_at,omitempty"`
	TransactionID string       `json:"transaction_id,omitempty"`
	Features      []string     `json:"features"`
}

// Profile полный снимок состояния пользователя.
type Profile struct {
	Common       Common       `json:"common"`
	Subscription Subscription `json:"subscription"`
	Body         Body         `json:"body"`
	Macros       Macros       `json:"macros"`
	Purchase     Purchase     `json:"purchase"`
}

// Clone возвращает глубокую копию профиля.
func (p Profile) Clone() Profile {
	out := p
	out.Subscription.StartDate = cloneTime(p.Subscription.StartDate)
	out.Subscription.EndDate = cloneTime(p.Subscription.EndDate)
	out.Subscription.FreeTrial = cloneBool(p.Subscription.FreeTrial)
	out.Body.Current.Weight = cloneFloat(p.Body.Current.Weight)
	out.Body.Current.BF = cloneFloat(p.Body.Current.BF)
	out.Purchase.PurchasedAt = cloneTime(p.Purchase.PurchasedAt)
	if p.Purchase.Features != nil {
		out.Purchase.Features = append([]string{}, p.Purchase.Features...)
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
