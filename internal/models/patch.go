package models

import "time"

// CommonPatch частичное обновление общих данных. Nil-поле означает «не менять».
type CommonPatch struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=1,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=6"`
	Icon     *int    `json:"icon,omitempty" validate:"omitempty,gte=0,lte=31"`
}

// SubscriptionPatch частичное обновление подписки.
type SubscriptionPatch struct {
	Tier      *SubscriptionTier `json:"tier,omitempty"`
	StartDate *time.Time        `json:"start_date,omitempty"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	FreeTrial *bool             `json:"free_trial,omitempty"`
}

// BodyCurrentPatch частичное обновление текущих замеров.
type BodyCurrentPatch struct {
	Gender   *Gender  `json:"gender,omitempty" validate:"omitempty,oneof=male female"`
	Age      *int     `json:"age,omitempty" validate:"omitempty,gte=10,lte=120"`
	Height   *float64 `json:"height,omitempty" validate:"omitempty,gt=0,lte=300"`
	Activity *float64 `json:"activity,omitempty" validate:"omitempty,gte=1.2,lte=1.9"`
	Weight   *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lte=500"`
	BF       *float64 `json:"bf,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// BodyGoalPatch частичное обновление цели.
type BodyGoalPatch struct {
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gt=0,lte=500"`
	BF     *float64 `json:"bf,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// MacrosPatch частичное обновление макронутриентов.
type MacrosPatch struct {
	Kcal     *int `json:"kcal,omitempty" validate:"omitempty,gte=0,lte=20000"`
	Proteins *int `json:"proteins,omitempty" validate:"omitempty,gte=0"`
	Carbs    *int `json:"carbs,omitempty" validate:"omitempty,gte=0"`
	Fats     *int `json:"fats,omitempty" validate:"omitempty,gte=0"`
}
