package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveStage(t *testing.T) {
	cases := []struct {
		isVerified         bool
		subscriptionActive bool
		want               OnboardingStage
	}{
		{false, false, StageDocs},
		// Subscription without verification still sits at docs; the
		// docs gate always comes first.
		{false, true, StageDocs},
		{true, false, StagePayment},
		{true, true, StageComplete},
	}

	for _, tc := range cases {
		got := ResolveStage(tc.isVerified, tc.subscriptionActive)
		assert.Equal(t, tc.want, got, "verified=%v subscription=%v", tc.isVerified, tc.subscriptionActive)
	}
}

func TestArtisanStage(t *testing.T) {
	a := &Artisan{IsVerified: true, SubscriptionActive: false}
	assert.Equal(t, StagePayment, a.Stage())

	a.SubscriptionActive = true
	assert.Equal(t, StageComplete, a.Stage())
}

func TestIsKnownRegion(t *testing.T) {
	assert.True(t, IsKnownRegion("Greater Accra"))
	assert.True(t, IsKnownRegion("Upper West"))
	assert.False(t, IsKnownRegion("greater accra"))
	assert.False(t, IsKnownRegion("Lagos"))
	assert.False(t, IsKnownRegion(""))
}
