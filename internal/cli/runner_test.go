package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tlpswitch/internal/applier"
	"tlpswitch/internal/profile"
	"tlpswitch/internal/reconciler"
)

type fakeApplier struct {
	result applier.Result
	err    error
	block  bool
}

func (f *fakeApplier) Apply(_ context.Context, id string) (<-chan applier.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan applier.Result, 1)
	if !f.block {
		r := f.result
		r.ProfileID = id
		ch <- r
	}
	return ch, nil
}

func TestRunApply_Success(t *testing.T) {
	var out bytes.Buffer
	fake := &fakeApplier{result: applier.Result{Succeeded: true}}

	result, err := RunApply(context.Background(), fake, "balanced", ApplyOptions{Out: &out})
	require.NoError(t, err)
	assert.True(t, result.Succeeded)
	assert.Contains(t, out.String(), "Applied balanced")
}

func TestRunApply_Declined(t *testing.T) {
	fake := &fakeApplier{result: applier.Result{
		ErrorKind: profile.KindApplyFailed,
		Detail:    "authorization was dismissed",
		ExitCode:  126,
	}}

	_, err := RunApply(context.Background(), fake, "balanced", ApplyOptions{Quiet: true})
	require.Error(t, err)

	var failed *ApplyFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "balanced", failed.ProfileID)
	assert.Equal(t, 126, failed.ExitCode)
	assert.Contains(t, err.Error(), "authorization was dismissed")
}

func TestRunApply_Rejected(t *testing.T) {
	fake := &fakeApplier{err: reconciler.ErrApplyInProgress}

	_, err := RunApply(context.Background(), fake, "balanced", ApplyOptions{Quiet: true})
	assert.ErrorIs(t, err, reconciler.ErrApplyInProgress)
}

func TestRunApply_Superseded(t *testing.T) {
	fake := &fakeApplier{result: applier.Result{Aborted: reconciler.ErrApplySuperseded}}

	_, err := RunApply(context.Background(), fake, "balanced", ApplyOptions{Quiet: true})
	assert.ErrorIs(t, err, reconciler.ErrApplySuperseded)

	var failed *ApplyFailedError
	assert.False(t, errors.As(err, &failed))
}

func TestRunApply_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RunApply(ctx, &fakeApplier{block: true}, "balanced", ApplyOptions{Quiet: true})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProfileOptions(t *testing.T) {
	options := ProfileOptions(testState())
	require.Len(t, options, 2)
	assert.Equal(t, "balanced (active)", options[0].Key)
	assert.Equal(t, "balanced", options[0].Value)
	assert.Equal(t, "performance-on-ac-with-a-long-name", options[1].Key)
}

func TestSelectProfile_NoProfiles(t *testing.T) {
	_, err := SelectProfile(reconciler.State{})
	assert.ErrorIs(t, err, ErrNoProfiles)
}
