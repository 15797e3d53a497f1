package credential

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateScenarios(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want map[Field]string
	}{
		{"empty identifier", Input{Identifier: "", Secret: "abc"}, map[Field]string{FieldIdentifier: "Username is required"}},
		{"blank identifier", Input{Identifier: " \t ", Secret: "abc"}, map[Field]string{FieldIdentifier: "Username cannot be empty"}},
		{"short secret", Input{Identifier: "alice", Secret: "ab"}, map[Field]string{FieldSecret: "Password must be at least 3 characters"}},
		{"empty secret", Input{Identifier: "alice", Secret: ""}, map[Field]string{FieldSecret: "Password is required"}},
		{"both invalid", Input{}, map[Field]string{
			FieldIdentifier: "Username is required",
			FieldSecret:     "Password is required",
		}},
		{"blank and short", Input{Identifier: "   ", Secret: "x"}, map[Field]string{
			FieldIdentifier: "Username cannot be empty",
			FieldSecret:     "Password must be at least 3 characters",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.in)
			require.False(t, res.Valid())
			require.Equal(t, tc.want, res.Errors)
			require.Equal(t, Credential{}, res.Credential)
		})
	}
}

func TestValidateValid(t *testing.T) {
	res := Validate(Input{Identifier: "  alice ", Secret: " abcdef ", RememberMe: true})
	require.True(t, res.Valid())
	require.Empty(t, res.Errors)
	require.Equal(t, "alice", res.Credential.Identifier)
	require.Equal(t, " abcdef ", res.Credential.Secret)
	require.True(t, res.Credential.RememberMe)

	_, ok := res.Message(FieldIdentifier)
	require.False(t, ok)
}

func TestSecretLengthCountsCharacters(t *testing.T) {
	// 三個多位元組字元也算三個字
	require.True(t, Validate(Input{Identifier: "bob", Secret: "密碼鎖"}).Valid())
	require.False(t, Validate(Input{Identifier: "bob", Secret: "密碼"}).Valid())
}

func TestValidateIsDeterministic(t *testing.T) {
	v := New()
	inputs := []Input{
		{Identifier: "", Secret: "abc"},
		{Identifier: "alice", Secret: "ab"},
		{Identifier: "alice", Secret: "abcdef"},
	}
	for _, in := range inputs {
		require.Equal(t, v.Validate(in), v.Validate(in))
		require.Equal(t, v.Validate(in), Validate(in))
	}
}

func TestResultMessage(t *testing.T) {
	res := Validate(Input{Identifier: "alice", Secret: "ab"})
	msg, ok := res.Message(FieldSecret)
	require.True(t, ok)
	require.Equal(t, "Password must be at least 3 characters", msg)
	_, ok = res.Message(FieldIdentifier)
	require.False(t, ok)
}

func TestNewRegistersRules(t *testing.T) {
	var v *Validator
	require.NotPanics(t, func() { v = New() })

	// 任何字串輸入都只會得到欄位錯誤，不會走到非 ValidationErrors 的分支
	inputs := []Input{
		{},
		{Identifier: "\t\n", Secret: "\x00"},
		{Identifier: "使用者", Secret: "密碼"},
		{Identifier: strings.Repeat("a", 4096), Secret: strings.Repeat("b", 4096)},
	}
	for _, in := range inputs {
		require.NotPanics(t, func() { v.Validate(in) })
	}
}
