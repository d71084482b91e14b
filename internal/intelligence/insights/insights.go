// Package insights turns the numeric analysis results into Spanish-language
// interpretations, recommendations, trends, correlations, and key factors.
package insights

import (
	"fmt"
	"sort"

	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/outcome_predictor"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/phrase_counter"
	"github.com/lexanalitica/Sentencia-Intelligence/internal/intelligence/risk_engine"
)

// ─────────────────────────────────────────────────────────────────────────────
// Interpretation
// ─────────────────────────────────────────────────────────────────────────────

// Interpret renders the risk level as an analyst-facing explanation, with the
// score and the per-tier occurrence totals interpolated.
func Interpret(score risk_engine.Score) string {
	switch score.Level {
	case risk_engine.LevelAlto:
		return fmt.Sprintf(
			"ALTO RIESGO LEGAL (%.1f puntos). Se detectaron %d indicadores de alto riesgo "+
				"relacionados con reclamaciones administrativas, procedimientos legales complejos "+
				"y fundamentos jurídicos críticos. El caso presenta múltiples factores que aumentan "+
				"la probabilidad de resolución desfavorable; requiere revisión exhaustiva por "+
				"especialista y preparación de una estrategia de defensa robusta.",
			score.FinalScore, score.TierTotals.High)
	case risk_engine.LevelMedio:
		return fmt.Sprintf(
			"RIESGO LEGAL MODERADO (%.1f puntos). Se identificaron %d elementos de riesgo medio "+
				"relacionados con lesiones permanentes, accidentes laborales y prestaciones. "+
				"El caso presenta factores de complejidad que requieren atención especializada: "+
				"revisión cuidadosa de las áreas críticas y preparación de argumentos sólidos.",
			score.FinalScore, score.TierTotals.Medium)
	default:
		return fmt.Sprintf(
			"RIESGO LEGAL BAJO (%.1f puntos). Se detectaron %d indicadores de bajo riesgo "+
				"relacionados con procedimientos estándar del INSS y casos rutinarios. "+
				"El caso presenta características típicas de resolución favorable; "+
				"procede el seguimiento regular del procedimiento estándar.",
			score.FinalScore, score.TierTotals.Low)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Recommendations
// ─────────────────────────────────────────────────────────────────────────────

// Recommendation is a single actionable item for the case handler.
type Recommendation struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Priority      string `json:"priority"`
	EstimatedTime string `json:"estimated_time"`
}

// ForLevel returns the recommendation set of a risk level.  Every level maps
// to a non-empty set.
func ForLevel(level risk_engine.Level) []Recommendation {
	switch level {
	case risk_engine.LevelAlto:
		return []Recommendation{
			{
				Title:         "Revisión exhaustiva de fundamentos jurídicos",
				Description:   "Analizar cada fundamento jurídico mencionado en la documentación, verificando su aplicabilidad y solidez.",
				Priority:      "crítica",
				EstimatedTime: "2-3 días",
			},
			{
				Title:         "Consulta con especialista en derecho administrativo",
				Description:   "Obtener asesoramiento especializado para casos complejos de derecho administrativo y procedimientos legales.",
				Priority:      "alta",
				EstimatedTime: "1-2 días",
			},
			{
				Title:         "Verificación de cumplimiento de plazos",
				Description:   "Revisar todos los plazos procesales y administrativos para evitar caducidades.",
				Priority:      "crítica",
				EstimatedTime: "1 día",
			},
			{
				Title:         "Preparación de estrategia de defensa",
				Description:   "Desarrollar argumentos sólidos y contraargumentos para cada punto crítico identificado.",
				Priority:      "alta",
				EstimatedTime: "3-5 días",
			},
			{
				Title:         "Evaluación de alternativas extrajudiciales",
				Description:   "Considerar negociación, mediación o conciliación antes de procedimientos contenciosos.",
				Priority:      "media",
				EstimatedTime: "2-3 días",
			},
		}
	case risk_engine.LevelMedio:
		return []Recommendation{
			{
				Title:         "Revisión de áreas críticas identificadas",
				Description:   "Enfocar la atención en los puntos específicos que presentan mayor complejidad.",
				Priority:      "alta",
				EstimatedTime: "1-2 días",
			},
			{
				Title:         "Verificación de documentación de respaldo",
				Description:   "Asegurar que toda la documentación médica y administrativa esté completa y actualizada.",
				Priority:      "media",
				EstimatedTime: "1 día",
			},
			{
				Title:         "Fortalecimiento de argumentos débiles",
				Description:   "Desarrollar argumentos adicionales para los puntos que puedan ser cuestionados.",
				Priority:      "media",
				EstimatedTime: "2-3 días",
			},
			{
				Title:         "Comunicación regular con el cliente",
				Description:   "Mantener informado al cliente sobre el progreso y cualquier desarrollo importante.",
				Priority:      "baja",
				EstimatedTime: "continuo",
			},
		}
	default:
		return []Recommendation{
			{
				Title:         "Seguimiento de procedimiento estándar",
				Description:   "Continuar con el proceso habitual, manteniendo la documentación actualizada.",
				Priority:      "baja",
				EstimatedTime: "continuo",
			},
			{
				Title:         "Organización de documentación",
				Description:   "Mantener todos los documentos organizados y accesibles para futuras referencias.",
				Priority:      "baja",
				EstimatedTime: "1 día",
			},
			{
				Title:         "Seguimiento regular del caso",
				Description:   "Realizar seguimiento periódico para asegurar que no se produzcan retrasos.",
				Priority:      "baja",
				EstimatedTime: "continuo",
			},
		}
	}
}

// Band buckets a favorable-outcome probability for recommendation purposes.
type Band string

const (
	BandFavorable   Band = "favorable"
	BandIncierta    Band = "incierta"
	BandDesfavorable Band = "desfavorable"
)

// BandOf buckets a probability: above 0.7 favorable, below 0.3 unfavorable,
// otherwise uncertain.
func BandOf(probabilityFavorable float64) Band {
	switch {
	case probabilityFavorable > 0.7:
		return BandFavorable
	case probabilityFavorable < 0.3:
		return BandDesfavorable
	default:
		return BandIncierta
	}
}

// ForBand returns the recommendation set of a probability band.  Every band
// maps to a non-empty set.
func ForBand(band Band) []Recommendation {
	switch band {
	case BandFavorable:
		return []Recommendation{
			{
				Title:         "Alta probabilidad de resolución favorable",
				Description:   "Los patrones históricos sugieren un resultado positivo: preparar argumentos de respaldo y mantener la documentación actualizada.",
				Priority:      "alta",
				EstimatedTime: "1-2 días",
			},
			{
				Title:         "Monitorear cambios normativos",
				Description:   "Vigilar modificaciones en la normativa de seguridad social que puedan afectar la pretensión.",
				Priority:      "media",
				EstimatedTime: "continuo",
			},
		}
	case BandDesfavorable:
		return []Recommendation{
			{
				Title:         "Alta probabilidad de resolución desfavorable",
				Description:   "Los patrones históricos sugieren un resultado negativo: revisar exhaustivamente la documentación y consultar con especialista legal.",
				Priority:      "crítica",
				EstimatedTime: "1-2 días",
			},
			{
				Title:         "Considerar alternativas de resolución",
				Description:   "Evaluar vías extrajudiciales y preparar argumentos de defensa sólidos antes de continuar el procedimiento.",
				Priority:      "alta",
				EstimatedTime: "2-3 días",
			},
		}
	default:
		return []Recommendation{
			{
				Title:         "Resultado incierto",
				Description:   "La muestra de resoluciones no permite una predicción firme: ampliar el corpus con resoluciones adicionales comparables.",
				Priority:      "media",
				EstimatedTime: "continuo",
			},
			{
				Title:         "Validar con expertos legales",
				Description:   "Contrastar la estimación con el criterio de un especialista antes de fijar la estrategia.",
				Priority:      "media",
				EstimatedTime: "1 día",
			},
		}
	}
}

// factorDescriptions maps each dictionary category to its analyst note.
var factorDescriptions = map[string]string{
	"incapacidad_permanente_parcial": "Factor crítico, fundamental para determinar la gravedad de las lesiones.",
	"reclamacion_administrativa":     "Procedimiento clave que define el camino legal a seguir.",
	"inss":                           "Entidad central cuyas resoluciones son determinantes.",
	"lesiones_permanentes":           "Factor médico-jurídico, base para la valoración.",
	"personal_limpieza":              "Categoría laboral específica que requiere consideraciones especiales.",
	"lesiones_hombro":                "Lesión específica que impacta en la capacidad laboral.",
	"procedimiento_legal":            "Marco procesal que condiciona plazos y recursos disponibles.",
}

// ForCategory returns the recommendation tailored to the dominant category,
// or a generic one when the category has no specific note.
func ForCategory(category string) Recommendation {
	desc, ok := factorDescriptions[category]
	if !ok {
		desc = "Revisar la documentación relacionada y consultar con especialista."
	}
	return Recommendation{
		Title:         fmt.Sprintf("Atención a la categoría dominante: %s", category),
		Description:   desc,
		Priority:      "alta",
		EstimatedTime: "1-2 días",
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Trends
// ─────────────────────────────────────────────────────────────────────────────

// CategoryTrend describes the frequency behavior of one category.
type CategoryTrend struct {
	Category  string `json:"category"`
	Total     int    `json:"total"`
	Frequency string `json:"frequency"` // alta / media / baja
	Trend     string `json:"trend"`     // creciente / estable / decreciente
	Impact    string `json:"impact"`    // alto / medio / bajo
}

// TrendSummary aggregates the per-category trends.
type TrendSummary struct {
	TotalCategories    int     `json:"total_categories"`
	MostFrequent       string  `json:"most_frequent"`
	AverageOccurrences float64 `json:"average_occurrences"`
}

// TrendReport is the full trend analysis of a counts map.
type TrendReport struct {
	Dominant []CategoryTrend `json:"dominant"`
	ByCategoryDesc []CategoryTrend `json:"by_category"`
	Summary  TrendSummary    `json:"summary"`
}

// Trends bands every category by occurrence total.  Frequency: alta above 50,
// media above 20, baja otherwise.  Trend: creciente above 30, estable above
// 15, decreciente otherwise.  Impact: alto above 40, medio above 20, bajo
// otherwise.
func Trends(counts phrase_counter.CategoryCounts) TrendReport {
	trends := make([]CategoryTrend, 0, len(counts))
	sum := 0
	for category, total := range counts {
		sum += total
		trends = append(trends, CategoryTrend{
			Category:  category,
			Total:     total,
			Frequency: bandOver(total, 50, 20, "alta", "media", "baja"),
			Trend:     bandOver(total, 30, 15, "creciente", "estable", "decreciente"),
			Impact:    bandOver(total, 40, 20, "alto", "medio", "bajo"),
		})
	}
	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Total != trends[j].Total {
			return trends[i].Total > trends[j].Total
		}
		return trends[i].Category < trends[j].Category
	})

	report := TrendReport{ByCategoryDesc: trends}
	if n := len(trends); n > 0 {
		top := 3
		if n < top {
			top = n
		}
		report.Dominant = trends[:top]
		report.Summary = TrendSummary{
			TotalCategories:    n,
			AverageOccurrences: float64(sum) / float64(n),
		}
		if trends[0].Total > 0 {
			report.Summary.MostFrequent = trends[0].Category
		}
	}
	return report
}

// bandOver classifies a total against two strict thresholds.
func bandOver(total, high, mid int, above, middle, below string) string {
	switch {
	case total > high:
		return above
	case total > mid:
		return middle
	default:
		return below
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Correlations
// ─────────────────────────────────────────────────────────────────────────────

// Correlation relates two categories by their relative frequency.
type Correlation struct {
	CategoryA string  `json:"category_a"`
	CategoryB string  `json:"category_b"`
	Value     float64 `json:"value"`
	Strength  string  `json:"strength"` // fuerte / moderada / débil
}

// Correlations computes min/max frequency ratios for every pair of categories
// with nonzero counts.  Strength: fuerte above 0.7, moderada above 0.4,
// débil otherwise.
func Correlations(counts phrase_counter.CategoryCounts) []Correlation {
	categories := make([]string, 0, len(counts))
	for category, total := range counts {
		if total > 0 {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	var out []Correlation
	for i := 0; i < len(categories); i++ {
		for j := i + 1; j < len(categories); j++ {
			a, b := counts[categories[i]], counts[categories[j]]
			lo, hi := a, b
			if lo > hi {
				lo, hi = hi, lo
			}
			value := float64(lo) / float64(hi)
			out = append(out, Correlation{
				CategoryA: categories[i],
				CategoryB: categories[j],
				Value:     value,
				Strength:  correlationStrength(value),
			})
		}
	}
	return out
}

func correlationStrength(value float64) string {
	switch {
	case value > 0.7:
		return "fuerte"
	case value > 0.4:
		return "moderada"
	default:
		return "débil"
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Key factors
// ─────────────────────────────────────────────────────────────────────────────

// KeyFactor is one of the top categories driving the analysis.
type KeyFactor struct {
	Category    string  `json:"category"`
	Total       int     `json:"total"`
	Percentage  float64 `json:"percentage"`
	Impact      string  `json:"impact"` // alto / medio / bajo
	Description string  `json:"description"`
}

// maxKeyFactors bounds the key factor list.
const maxKeyFactors = 5

// KeyFactors returns the top categories by count with their share of all
// occurrences.  Categories with zero counts are excluded.
func KeyFactors(counts phrase_counter.CategoryCounts) []KeyFactor {
	total := counts.Total()
	if total == 0 {
		return nil
	}

	factors := make([]KeyFactor, 0, len(counts))
	for category, n := range counts {
		if n <= 0 {
			continue
		}
		desc, ok := factorDescriptions[category]
		if !ok {
			desc = "Factor relevante en el análisis."
		}
		factors = append(factors, KeyFactor{
			Category:    category,
			Total:       n,
			Percentage:  100 * float64(n) / float64(total),
			Impact:      bandOver(n, 40, 20, "alto", "medio", "bajo"),
			Description: desc,
		})
	}
	sort.Slice(factors, func(i, j int) bool {
		if factors[i].Total != factors[j].Total {
			return factors[i].Total > factors[j].Total
		}
		return factors[i].Category < factors[j].Category
	})
	if len(factors) > maxKeyFactors {
		factors = factors[:maxKeyFactors]
	}
	return factors
}

// ─────────────────────────────────────────────────────────────────────────────
// Report
// ─────────────────────────────────────────────────────────────────────────────

// Report bundles every insight computed for one analysis.
type Report struct {
	Interpretation  string           `json:"interpretation"`
	Recommendations []Recommendation `json:"recommendations"`
	Trends          TrendReport      `json:"trends"`
	Correlations    []Correlation    `json:"correlations"`
	KeyFactors      []KeyFactor      `json:"key_factors"`
	ProbabilityBand Band             `json:"probability_band"`
}

// Build assembles the full insight report: level recommendations first, then
// the probability band's, then the dominant category's.
func Build(score risk_engine.Score, prediction outcome_predictor.Prediction, counts phrase_counter.CategoryCounts) Report {
	band := BandOf(prediction.ProbabilityFavorable)

	recommendations := ForLevel(score.Level)
	recommendations = append(recommendations, ForBand(band)...)
	if dominant := score.DominantCategory(); dominant != "" {
		recommendations = append(recommendations, ForCategory(dominant))
	}

	return Report{
		Interpretation:  Interpret(score),
		Recommendations: recommendations,
		Trends:          Trends(counts),
		Correlations:    Correlations(counts),
		KeyFactors:      KeyFactors(counts),
		ProbabilityBand: band,
	}
}
