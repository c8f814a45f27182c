/*
Package session manages the lifetime of the single instrument session of a run.

Use WithSession for scoped acquisition: the session is released on every exit path.

	err := session.WithSession(ctx, opener, "5840", func(ctx context.Context, s *session.Session) error {
		configs, err := s.LoadConfiguration(ctx, "SampleConfig.yaml")
		if err != nil {
			return err
		}
		return dispatcher.Run(ctx, s.Instrument(), configs)
	})
*/
package session
