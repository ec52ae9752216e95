package gameserver

import (
	"context"
	"log/slog"
	"net"

	"golang.org/x/sync/errgroup"

	"github.com/tilemmo/core/internal/mapload"
	"github.com/tilemmo/core/internal/objects"
	"github.com/tilemmo/core/internal/spatial"
)

// Server composes C5 through C10 and the chat fan-out into the set of
// concurrent tasks that make up the running game server. Grounded on
// the teacher's top-level Server type that wires listener + game loop
// under one errgroup (udisondev-la2go/cmd/gameserver/main.go).
type Server struct {
	log        *slog.Logger
	world      *World
	dispatcher *Dispatcher
	tcpLn      net.Listener
	udpConn    *net.UDPConn
}

// NewServer wires a World, Dispatcher, TCP listener and UDP socket
// together. The caller owns populating World.Objects/World.Map before
// Run (typically via mapload.PopulateObjects) and owns closing tcpLn/
// udpConn if Run returns early.
func NewServer(log *slog.Logger, world *World, tcpLn net.Listener, udpConn *net.UDPConn) *Server {
	d := NewDispatcher(log, world, udpConn)
	return &Server{log: log, world: world, dispatcher: d, tcpLn: tcpLn, udpConn: udpConn}
}

// LoadMap populates the world's GameObjects store from loader and
// marks each resulting cell occupied on the MmoMap so BFS pathfinding
// and collision checks see them immediately (spec.md §6): orcs occupy
// their cell as MonsterOccupant (so the C9 AI tick finds them),
// everything else as ObjectOccupant.
func (s *Server) LoadMap(loader mapload.Loader) error {
	if err := mapload.PopulateObjects(loader, s.world.Objects); err != nil {
		return err
	}

	var setErr error
	s.world.Objects.ForEach(func(loc spatial.Location, obj objects.GameObject) {
		if setErr != nil {
			return
		}
		kind := spatial.ObjectOccupant
		if obj.Kind == objects.KindOrc {
			kind = spatial.MonsterOccupant
		}
		setErr = s.world.Map.Set(loc, spatial.MapElement{Kind: kind})
	})
	return setErr
}

// Run starts the listener, UDP reader, dispatcher and tick loop, all
// supervised by one errgroup (grounded on the teacher's use of
// golang.org/x/sync/errgroup to fail the whole server fast if any one
// task dies — udisondev-la2go/cmd/gameserver/main.go). Blocks until ctx
// is canceled or any task returns an error.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	listener := NewListener(s.log, s.tcpLn, s.dispatcher.Events())
	g.Go(func() error { return listener.Serve(ctx) })
	g.Go(func() error { return runUDPReadLoop(ctx, s.log, s.udpConn, s.dispatcher.Events()) })
	g.Go(func() error { return s.dispatcher.Run(ctx) })
	g.Go(func() error { return RunTickLoop(ctx, s.log, s.world, s.udpConn) })

	return g.Wait()
}
