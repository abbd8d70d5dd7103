package controllers

// Request bodies. Rules are evaluated against the raw JSON by pkg/validate;
// pointer fields are optional and stay nil when the key was not sent.

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,string"`
	Email    string `json:"email"    validate:"required,string,email,unique=users.email"`
	Password string `json:"password" validate:"required,string,confirmed"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,string,email"`
	Password string `json:"password" validate:"required,string"`
}

type StoreMealRequest struct {
	Name     string  `json:"name"     validate:"required,string"`
	Unit     string  `json:"unit"     validate:"required,string"`
	Calories int     `json:"calories" validate:"required,integer"`
	Category *string `json:"category" validate:"string"`
	Tfat     *int    `json:"tfat"     validate:"integer"`
	Sfat     *int    `json:"sfat"     validate:"integer"`
	Carbs    *int    `json:"carbs"    validate:"integer"`
	Sugar    *int    `json:"sugar"    validate:"integer"`
	Protein  *int    `json:"protein"  validate:"integer"`
}

// UpdateMealRequest has no name: a meal keeps the name it was created with.
type UpdateMealRequest struct {
	Unit     *string `json:"unit"     validate:"string"`
	Calories *int    `json:"calories" validate:"integer"`
	Tfat     *int    `json:"tfat"     validate:"integer"`
	Sfat     *int    `json:"sfat"     validate:"integer"`
	Carbs    *int    `json:"carbs"    validate:"integer"`
	Sugar    *int    `json:"sugar"    validate:"integer"`
	Protein  *int    `json:"protein"  validate:"integer"`
}

// Fields returns the columns that were sent.
func (r UpdateMealRequest) Fields() map[string]any {
	out := map[string]any{}
	if r.Unit != nil {
		out["unit"] = *r.Unit
	}
	if r.Calories != nil {
		out["calories"] = *r.Calories
	}
	macros{r.Tfat, r.Sfat, r.Carbs, r.Sugar, r.Protein}.into(out)
	return out
}

type UpdateAmountRequest struct {
	Amount float64 `json:"amount" validate:"required,numeric"`
}

type TargetMacrosRequest struct {
	Calories *int `json:"calories" validate:"integer"`
	Tfat     *int `json:"tfat"     validate:"integer"`
	Sfat     *int `json:"sfat"     validate:"integer"`
	Carbs    *int `json:"carbs"    validate:"integer"`
	Sugar    *int `json:"sugar"    validate:"integer"`
	Protein  *int `json:"protein"  validate:"integer"`
}

// Fields returns the columns that were sent.
func (r TargetMacrosRequest) Fields() map[string]any {
	out := map[string]any{}
	if r.Calories != nil {
		out["calories"] = *r.Calories
	}
	macros{r.Tfat, r.Sfat, r.Carbs, r.Sugar, r.Protein}.into(out)
	return out
}

// macros is tfat, sfat, carbs, sugar, protein in column order.
type macros [5]*int

var macroColumns = [5]string{"tfat", "sfat", "carbs", "sugar", "protein"}

func (m macros) into(out map[string]any) {
	for i, v := range m {
		if v != nil {
			out[macroColumns[i]] = *v
		}
	}
}
