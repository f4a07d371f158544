package sig

import "github.com/openhashsig/koala-xmss/lifetime"

// expandWindow implements spec §4.7. Requests that are individually
// impossible (the raw activation_epoch + num_active_epochs already
// exceeds the lifetime, before any rounding) are rejected with
// ErrInvalidActivationParameters; requests that only overflow because of
// C-alignment rounding are shifted or clamped to fit, per step 4.
func expandWindow(p lifetime.Params, activationEpoch, numActiveEpochs uint64) (start, end uint64, err error) {
	lifetimeEpochs := p.Epochs()
	if activationEpoch+numActiveEpochs > lifetimeEpochs {
		return 0, 0, ErrInvalidActivationParameters
	}

	c := p.BottomTreeSize()
	start = (activationEpoch / c) * c
	end = ((activationEpoch + numActiveEpochs + c - 1) / c) * c

	if end-start < 2*c {
		end = start + 2*c
	}

	if end > lifetimeEpochs {
		duration := end - start
		if duration > lifetimeEpochs {
			start, end = 0, lifetimeEpochs
		} else {
			end = lifetimeEpochs
			start = end - duration
		}
	}
	return start, end, nil
}
