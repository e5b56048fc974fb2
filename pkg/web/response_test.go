package web

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
)

type request struct {
	Kind   string `validate:"required,oneof=account card"`
	ID     int64  `validate:"min=1"`
	Amount string `validate:"required"`
}

func TestBindError(t *testing.T) {
	t.Parallel()

	v := validator.New()

	testCases := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "Required",
			err:  v.Struct(request{ID: 1, Amount: "1"}),
			want: "Kind is required",
		},
		{
			name: "OneOf",
			err:  v.Struct(request{Kind: "wallet", ID: 1, Amount: "1"}),
			want: "Kind must be one of [account card]",
		},
		{
			name: "Min",
			err:  v.Struct(request{Kind: "card", Amount: "1"}),
			want: "ID must be at least 1",
		},
		{
			name: "NotValidation",
			err:  errors.New("unexpected EOF"),
			want: "unexpected EOF",
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := BindError(tc.err).Error; got != tc.want {
				t.Errorf("BindError(%v).Error = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
