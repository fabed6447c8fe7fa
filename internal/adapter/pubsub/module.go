package pubsub

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/fx"
)

var Module = fx.Module("pubsub",
	fx.Provide(
		NewBus,
		func(b *gochannel.GoChannel) message.Publisher { return b },
		func(b *gochannel.GoChannel) message.Subscriber { return b },
		NewEventDispatcher,
		NewRecorder,
	),
	fx.Invoke(func(lc fx.Lifecycle, bus *gochannel.GoChannel, rec *Recorder) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				// Subscriptions outlive the startup context; the bus
				// closing ends them.
				return rec.Run(context.Background())
			},
			OnStop: func(ctx context.Context) error {
				return bus.Close()
			},
		})
	}),
)
