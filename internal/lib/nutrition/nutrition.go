// Package nutrition реализует арифметику питания: индекс массы тела,
// базовый обмен по формуле Миффлина-Сан Жеора, суточный расход энергии
// и распределение макронутриентов.
package nutrition

import (
	"math"
	"time"

	"github.com/magabrotheeeer/nutrition-app/internal/models"
)

// DefaultWeight вес, подставляемый в расчёт, когда текущий вес не указан.
const DefaultWeight = 70.0

// Коэффициенты физической активности.
const (
	ActivitySedentary  = 1.2
	ActivityLight      = 1.375
	ActivityModerate   = 1.55
	ActivityActive     = 1.725
	ActivityVeryActive = 1.9
)

// ActivityFactors допустимые коэффициенты активности в порядке возрастания.
var ActivityFactors = []float64{
	ActivitySedentary,
	ActivityLight,
	ActivityModerate,
	ActivityActive,
	ActivityVeryActive,
}

// ValidActivity сообщает, является ли f одним из допустимых коэффициентов.
func ValidActivity(f float64) bool {
	for _, a := range ActivityFactors {
		if math.Abs(a-f) < 1e-9 {
			return true
		}
	}
	return false
}

// BMI возвращает индекс массы тела: вес / (рост в метрах)².
// Если вес или рост отсутствуют, возвращает 0.
func BMI(weightKg *float64, heightCm float64) float64 {
	if weightKg == nil || *weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return *weightKg / (m * m)
}

// BMR базовый обмен веществ по формуле Миффлина-Сан Жеора.
// Любой пол, кроме male, считается по женской формуле.
func BMR(gender models.Gender, weightKg, heightCm float64, age int) float64 {
	base := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if gender == models.GenderMale {
		return base + 5
	}
	return base - 161
}

// TDEE суточный расход энергии: базовый обмен, умноженный на коэффициент активности.
func TDEE(body models.Body) float64 {
	return BMR(body.Gender, weightOrDefault(body.Current.Weight), body.Current.Height, body.Current.Age) *
		body.Current.Activity
}

// CalculateMacros рассчитывает суточную норму:
// калории = TDEE, белки = 2 г на кг веса, углеводы = 50% TDEE, жиры = 30% TDEE.
func CalculateMacros(body models.Body) models.Macros {
	w := weightOrDefault(body.Current.Weight)
	tdee := TDEE(body)
	return models.Macros{
		Kcal:     roundHalfUp(tdee),
		Proteins: roundHalfUp(w * 2),
		Carbs:    roundHalfUp(tdee * 0.5 / 4),
		Fats:     roundHalfUp(tdee * 0.3 / 9),
	}
}

// DaysUntil возвращает количество дней (с округлением вверх) до end.
// Если дата не задана, возвращает 0.
func DaysUntil(end *time.Time, now time.Time) int {
	if end == nil {
		return 0
	}
	return int(math.Ceil(end.Sub(now).Hours() / 24))
}

func weightOrDefault(w *float64) float64 {
	if w == nil || *w <= 0 {
		return DefaultWeight
	}
	return *w
}

// roundHalfUp округляет .5 в сторону +∞.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
