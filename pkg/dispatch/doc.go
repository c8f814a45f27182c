/*
Package dispatch implements the measurement loop.

For each loaded configuration, in order, the Dispatcher resolves the personality to a
Variant, opens the measurement handle, asks the Confirmer, and on a 'y' initiates the
measurement, waits for completion and hands the acquisition to the Fetcher. The handle is
disposed on every path. A personality without a Variant aborts the loop with
domain.ErrUnsupportedPersonality.

# Usage

	d := dispatch.New(
		dispatch.WithConfirmer(console.NewKeyConfirmer(os.Stdout)),
		dispatch.WithOutputDir("captures"),
	)

	if err := d.Run(ctx, inst, configs); err != nil {
		return err
	}
*/
package dispatch
