package otpx_test

import (
	"testing"

	"github.com/aussiebroadwan/doorcode/pkg/otpx"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Parallel()

	t.Run("produces fixed-length numeric codes", func(t *testing.T) {
		for _, digits := range []int{4, 6, 8, 10} {
			code, err := otpx.GenerateCode(digits)
			require.NoError(t, err)
			require.Len(t, code, digits)
			for _, c := range code {
				require.True(t, c >= '0' && c <= '9', "code %q contains non-digit %q", code, c)
			}
		}
	})

	t.Run("successive codes are independent", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 20 {
			code, err := otpx.GenerateCode(otpx.DefaultDigits)
			require.NoError(t, err)
			seen[code] = true
		}
		// 20 collisions out of a million possibilities would mean the
		// generator is broken, not unlucky.
		require.Greater(t, len(seen), 1)
	})

	t.Run("rejects out-of-range lengths", func(t *testing.T) {
		_, err := otpx.GenerateCode(3)
		require.Error(t, err)

		_, err = otpx.GenerateCode(11)
		require.Error(t, err)

		_, err = otpx.GenerateCode(0)
		require.Error(t, err)
	})
}

func TestMatch(t *testing.T) {
	t.Parallel()

	fpr := otpx.Fingerprint("482913")

	t.Run("exact answer matches", func(t *testing.T) {
		require.True(t, otpx.Match("482913", fpr))
	})

	t.Run("wrong answer does not match", func(t *testing.T) {
		require.False(t, otpx.Match("482914", fpr))
		require.False(t, otpx.Match("48291", fpr))
		require.False(t, otpx.Match("4829130", fpr))
	})

	t.Run("empty answer never matches", func(t *testing.T) {
		require.False(t, otpx.Match("", fpr))
		require.False(t, otpx.Match("", otpx.Fingerprint("")))
	})

	t.Run("empty fingerprint never matches", func(t *testing.T) {
		require.False(t, otpx.Match("482913", ""))
	})
}

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	require.Equal(t, otpx.Fingerprint("123456"), otpx.Fingerprint("123456"))
	require.NotEqual(t, otpx.Fingerprint("123456"), otpx.Fingerprint("123457"))
	require.Len(t, otpx.Fingerprint("123456"), 43)
}
