package model

import (
	"errors"
	"fmt"
)

var ErrUnknownUnit = errors.New("unknown unit")

// Unit is the closed set of quantities a goal can be measured in.
type Unit string

const (
	// Nutrients
	UnitCalories      Unit = "calories"
	UnitProtein       Unit = "protein"
	UnitCarbohydrates Unit = "carbohydrates"
	UnitFat           Unit = "fat"
	UnitFibre         Unit = "fibre"

	// Minerals
	UnitCalcium    Unit = "calcium"
	UnitIron       Unit = "iron"
	UnitMagnesium  Unit = "magnesium"
	UnitPhosphorus Unit = "phosphorus"
	UnitPotassium  Unit = "potassium"
	UnitSodium     Unit = "sodium"
	UnitZinc       Unit = "zinc"
	UnitCopper     Unit = "copper"
	UnitSelenium   Unit = "selenium"
	UnitIodine     Unit = "iodine"

	// Vitamins
	UnitVitaminA   Unit = "vitamin_a"
	UnitThiamin    Unit = "thiamin"
	UnitRiboflavin Unit = "riboflavin"
	UnitNiacin     Unit = "niacin"
	UnitVitaminB6  Unit = "vitamin_b6"
	UnitVitaminB12 Unit = "vitamin_b12"
	UnitVitaminC   Unit = "vitamin_c"
	UnitVitaminD   Unit = "vitamin_d"
	UnitVitaminE   Unit = "vitamin_e"

	// Exercise
	UnitExercise      Unit = "exercise"
	UnitWalking       Unit = "walking"
	UnitJogging       Unit = "jogging"
	UnitRunning       Unit = "running"
	UnitCycling       Unit = "cycling"
	UnitSwimming      Unit = "swimming"
	UnitYoga          Unit = "yoga"
	UnitWeightLifting Unit = "weight_lifting"
	UnitDancing       Unit = "dancing"
	UnitHiking        Unit = "hiking"
	UnitRowing        Unit = "rowing"
)

// DefaultExerciseMinutes is the floor applied to generated daily exercise goals.
const DefaultExerciseMinutes = 30

type unitInfo struct {
	minimum int
	label   string
}

var units = map[Unit]unitInfo{
	UnitCalories:      {-1, "calories"},
	UnitProtein:       {-1, "grams of protein"},
	UnitCarbohydrates: {-1, "grams of carbohydrates"},
	UnitFat:           {-1, "grams of fat"},
	UnitFibre:         {-1, "grams of fibre"},

	UnitCalcium:    {-1, "milligrams of calcium"},
	UnitIron:       {-1, "milligrams of iron"},
	UnitMagnesium:  {-1, "milligrams of magnesium"},
	UnitPhosphorus: {-1, "milligrams of phosphorus"},
	UnitPotassium:  {-1, "milligrams of potassium"},
	UnitSodium:     {-1, "milligrams of sodium"},
	UnitZinc:       {-1, "milligrams of zinc"},
	UnitCopper:     {-1, "milligrams of copper"},
	UnitSelenium:   {-1, "micrograms of selenium"},
	UnitIodine:     {-1, "micrograms of iodine"},

	UnitVitaminA:   {-1, "micrograms of vitamin A"},
	UnitThiamin:    {-1, "milligrams of thiamin"},
	UnitRiboflavin: {-1, "milligrams of riboflavin"},
	UnitNiacin:     {-1, "milligrams of niacin"},
	UnitVitaminB6:  {-1, "milligrams of vitamin B6"},
	UnitVitaminB12: {-1, "micrograms of vitamin B12"},
	UnitVitaminC:   {-1, "milligrams of vitamin C"},
	UnitVitaminD:   {-1, "micrograms of vitamin D"},
	UnitVitaminE:   {-1, "milligrams of vitamin E"},

	UnitExercise:      {DefaultExerciseMinutes, "minutes of exercise"},
	UnitWalking:       {DefaultExerciseMinutes, "minutes of walking"},
	UnitJogging:       {DefaultExerciseMinutes, "minutes of jogging"},
	UnitRunning:       {DefaultExerciseMinutes, "minutes of running"},
	UnitCycling:       {DefaultExerciseMinutes, "minutes of cycling"},
	UnitSwimming:      {DefaultExerciseMinutes, "minutes of swimming"},
	UnitYoga:          {DefaultExerciseMinutes, "minutes of yoga"},
	UnitWeightLifting: {DefaultExerciseMinutes, "minutes of weight lifting"},
	UnitDancing:       {DefaultExerciseMinutes, "minutes of dancing"},
	UnitHiking:        {DefaultExerciseMinutes, "minutes of hiking"},
	UnitRowing:        {DefaultExerciseMinutes, "minutes of rowing"},
}

// Ordered listings; map iteration order is random.
var (
	nutritionUnits = []Unit{
		UnitCalories, UnitProtein, UnitCarbohydrates, UnitFat, UnitFibre,
		UnitCalcium, UnitIron, UnitMagnesium, UnitPhosphorus, UnitPotassium,
		UnitSodium, UnitZinc, UnitCopper, UnitSelenium, UnitIodine,
		UnitVitaminA, UnitThiamin, UnitRiboflavin, UnitNiacin, UnitVitaminB6,
		UnitVitaminB12, UnitVitaminC, UnitVitaminD, UnitVitaminE,
	}
	exerciseUnits = []Unit{
		UnitExercise, UnitWalking, UnitJogging, UnitRunning, UnitCycling,
		UnitSwimming, UnitYoga, UnitWeightLifting, UnitDancing, UnitHiking,
		UnitRowing,
	}
)

// NutritionUnits returns the nutrient, mineral and vitamin units in display order.
func NutritionUnits() []Unit {
	return append([]Unit(nil), nutritionUnits...)
}

func ExerciseUnits() []Unit {
	return append([]Unit(nil), exerciseUnits...)
}

// Units returns every unit, nutrition first.
func Units() []Unit {
	all := make([]Unit, 0, len(nutritionUnits)+len(exerciseUnits))
	all = append(all, nutritionUnits...)
	return append(all, exerciseUnits...)
}

func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
	return u, nil
}

func (u Unit) Valid() bool {
	_, ok := units[u]
	return ok
}

// Minimum is the floor for generated daily goals. -1 means no floor.
func (u Unit) Minimum() int {
	info, ok := units[u]
	if !ok {
		return -1
	}
	return info.minimum
}

func (u Unit) Label() string {
	info, ok := units[u]
	if !ok {
		return string(u)
	}
	return info.label
}

func (u Unit) String() string {
	return u.Label()
}

// IsExercise reports whether the unit carries a minimum, which only exercise units do.
func (u Unit) IsExercise() bool {
	return u.Minimum() > 0
}
