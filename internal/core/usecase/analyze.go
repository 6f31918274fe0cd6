package usecase

import (
	"context"
	"log/slog"

	"github.com/scansafe/scansafe/internal/core/domain"
	"github.com/scansafe/scansafe/internal/core/ports"
)

const (
	unknownProductName = "Unknown Product"
	analysisApology    = "We couldn't analyze this product right now. Please try scanning it again in a moment."
)

// AnalyzeUseCase runs the product analysis pipeline. It is total: every
// failure path collapses into the sentinel analysis, so callers only ever
// inspect the returned value.
type AnalyzeUseCase struct {
	describer ports.VisionDescriber
	fields    ports.FieldExtractor
}

func NewAnalyzeUseCase(describer ports.VisionDescriber, fields ports.FieldExtractor) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		describer: describer,
		fields:    fields,
	}
}

func (uc *AnalyzeUseCase) AnalyzeProductImage(ctx context.Context, localPath string) domain.ProductAnalysis {
	analysis, err := uc.describer.Describe(ctx, localPath)
	if err != nil {
		slog.Error("product_analysis_failed", "local_path", localPath, "error", err)
		return sentinelAnalysis()
	}
	return uc.parse(analysis)
}

func (uc *AnalyzeUseCase) parse(analysis domain.VisionAnalysis) domain.ProductAnalysis {
	out := domain.ProductAnalysis{ImageURI: analysis.ImageURI}

	name, ok := uc.fields.ProductName(analysis.Text)
	if !ok || name == "" {
		name = unknownProductName
	}
	out.ProductName = name

	if description, ok := uc.fields.Description(analysis.Text); ok {
		out.Description = description
	}

	out.Nutrition = uc.parseNutrition(analysis.Text)
	return out
}

// parseNutrition recovers the four nutrition fields. Values stay verbatim
// strings; a field the model omitted carries the NotAvailable sentinel. When
// no field matches at all the record carries no nutrition object.
func (uc *AnalyzeUseCase) parseNutrition(text string) *domain.NutritionalInfo {
	type nutritionField struct {
		dst  *string
		key  string
		alts []string
	}

	nutrition := domain.NutritionalInfo{}
	fields := []nutritionField{
		{&nutrition.Calories, "calories", []string{"energy", "kcal"}},
		{&nutrition.Fats, "fats", []string{"fat", "total fat"}},
		{&nutrition.Carbs, "carbs", []string{"carbohydrates", "total carbohydrates"}},
		{&nutrition.Proteins, "proteins", []string{"protein"}},
	}

	found := false
	for _, field := range fields {
		value, ok := uc.fields.Extract(text, field.key, field.alts...)
		if ok {
			*field.dst = value
			found = true
		} else {
			*field.dst = domain.NotAvailable
		}
	}
	if !found {
		return nil
	}
	return &nutrition
}

func sentinelAnalysis() domain.ProductAnalysis {
	return domain.ProductAnalysis{
		ProductName: unknownProductName,
		Description: analysisApology,
	}
}
