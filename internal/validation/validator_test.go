package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,password"`
	Name     string `validate:"notblank,max=100"`
	Sex      string `validate:"omitempty,sex"`
	Unit     string `validate:"omitempty,unit"`
	Age      int    `validate:"gte=0,lte=150"`
}

func TestStruct(t *testing.T) {
	valid := signup{
		Email:    "ada@example.com",
		Password: "correct horse battery",
		Name:     "Ada",
		Sex:      "female",
		Unit:     "protein",
		Age:      36,
	}
	require.NoError(t, Struct(valid))

	tests := []struct {
		name   string
		mutate func(*signup)
		want   string
	}{
		{"bad email", func(s *signup) { s.Email = "nope" }, "invalid email address format"},
		{"short password", func(s *signup) { s.Password = "short" }, ErrPasswordTooShort.Error()},
		{"blank name", func(s *signup) { s.Name = "   " }, "name is required"},
		{"bad sex", func(s *signup) { s.Sex = "other" }, "sex must be male or female"},
		{"bad unit", func(s *signup) { s.Unit = "parsecs" }, `unknown unit "parsecs"`},
		{"age too high", func(s *signup) { s.Age = 200 }, "age must be at most 150"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := Struct(s)
			require.Error(t, err)

			var verr *Error
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.want)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("a long enough phrase"))
	assert.ErrorIs(t, ValidatePassword("tiny"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword(string(make([]byte, 73))), ErrPasswordTooLong)
	assert.ErrorIs(t, ValidatePassword("MyPassword2024!"), ErrPasswordTooCommon)
}

func TestMustRegister(t *testing.T) {
	assert.NotPanics(t, Init)

	v := validator.New()
	assert.NotPanics(t, func() { mustRegister(v, customTags) })

	assert.PanicsWithValue(t, `validation: failed to register "": function Key cannot be empty`, func() {
		mustRegister(validator.New(), map[string]validator.Func{
			"": func(fl validator.FieldLevel) bool { return true },
		})
	})
}
