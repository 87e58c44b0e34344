// Package console is a serial console on a 256x64 OLED: a rotary encoder,
// a push button and a USART receiver feed a scrolling terminal. The work is
// split into a fixed set of prioritised tasks that share state only through
// ceiling-locked resources.
package console

import (
	"context"
	"log/slog"

	"oledconsole-go/errcode"
	"oledconsole-go/services/config"
	"oledconsole-go/services/console/internal/gpioirq"
	"oledconsole-go/services/console/internal/halcore"
	"oledconsole-go/services/console/internal/lineasm"
	"oledconsole-go/services/console/internal/platform"
	"oledconsole-go/services/console/internal/quadrature"
	"oledconsole-go/services/console/internal/sched"
	"oledconsole-go/services/console/internal/term"
	"oledconsole-go/services/console/internal/uartio"
	"oledconsole-go/services/heartbeat"
	"oledconsole-go/x/timex"
)

type (
	Board   = platform.Board
	Options = platform.Options
)

// OpenBoard brings up the board described by cfg.
func OpenBoard(ctx context.Context, cfg config.Config, opts Options) (*Board, error) {
	return platform.Open(ctx, cfg, opts)
}

// External interrupt lines of the inputs.
const (
	LineEncoderA gpioirq.Line = 1
	LineEncoderB gpioirq.Line = 2
	LineButton   gpioirq.Line = 8
)

const (
	prioTimer   sched.Priority = 1
	prioButton  sched.Priority = 1
	prioStartup sched.Priority = 1
	prioRxLine  sched.Priority = 2
	prioUsartRx sched.Priority = 3
	prioEncoder sched.Priority = 6
)

const buttonText = "<== button ==>"

// rxEvent is one unit of deferred receive work: a byte or a line fault.
type rxEvent struct {
	b     byte
	fault bool
	kind  lineasm.Kind
}

type leds struct {
	green, red halcore.GPIOPin
}

// corePender forwards peripheral pends to the core once it is built.
type corePender struct{ core *sched.Core }

func (p *corePender) Pend(v sched.Vector) error {
	if p.core == nil {
		return errcode.NotReady
	}
	return p.core.Pend(v)
}

type resources struct {
	terminal  *sched.Resource[*term.Terminal]
	tx        *sched.Resource[*term.SerialSink]
	exti      *sched.Resource[*gpioirq.Controller]
	position  *sched.Resource[*quadrature.Decoder]
	leds      *sched.Resource[leds]
	timer     *sched.Resource[*platform.Timer]
	rx        *sched.Resource[*uartio.RX]
	assembler *sched.Resource[*lineasm.Assembler]
}

// Service owns the task set. Create it with New and call Run once.
type Service struct {
	cfg   config.Config
	board *Board
	log   *slog.Logger

	core   *sched.Core
	pender corePender
	exti   *gpioirq.Controller
	rx     *uartio.RX
	timer  *platform.Timer
	res    resources

	rxLine  *sched.Spawner[rxEvent]
	startup *sched.Spawner[string]

	// Line scratch, one per task.
	lineA [32]byte
	lineB [32]byte

	ready chan struct{}
}

// Run is New followed by Service.Run.
func Run(ctx context.Context, b *Board, cfg config.Config, log *slog.Logger) error {
	s, err := New(b, cfg, log)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// New declares the tasks and resources and runs the init phase. Nothing is
// dispatched until Run.
func New(b *Board, cfg config.Config, log *slog.Logger) (*Service, error) {
	if b == nil {
		return nil, errcode.New("console.new", errcode.InvalidParams, "nil board")
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Service{cfg: cfg, board: b, log: log, ready: make(chan struct{})}
	if err := s.build(); err != nil {
		return nil, err
	}
	s.init()
	return s, nil
}

func (s *Service) build() error {
	b := sched.NewBuilder()
	r := &s.res
	r.terminal = sched.NewResource[*term.Terminal](b, "terminal")
	r.tx = sched.NewResource[*term.SerialSink](b, "tx")
	r.exti = sched.NewResource[*gpioirq.Controller](b, "exti")
	r.position = sched.NewResource[*quadrature.Decoder](b, "position")
	r.leds = sched.NewResource[leds](b, "leds")
	r.timer = sched.NewResource[*platform.Timer](b, "timer")
	r.rx = sched.NewResource[*uartio.RX](b, "rx")
	r.assembler = sched.NewResource[*lineasm.Assembler](b, "assembler")

	s.exti = gpioirq.New(&s.pender)
	s.rx = uartio.NewRX(uartio.RXConfig{FIFO: s.cfg.UART.RXFIFO, Vector: halcore.VectorUSART1}, &s.pender)
	s.timer = platform.NewTimer(halcore.VectorTIM, &s.pender)

	b.Bind(sched.TaskConfig{
		Name: "timer", Priority: prioTimer,
		Vector: halcore.VectorTIM, Source: s.timer,
		Uses: []sched.Claim{r.terminal, r.timer},
	}, s.onTimer)
	b.Bind(sched.TaskConfig{
		Name: "encoder_a", Priority: prioEncoder,
		Vector: halcore.VectorEXTI0_1, Source: s.exti.Range(0, 1),
		Uses: []sched.Claim{r.exti, r.position, r.terminal, r.leds},
	}, s.onEncoderA)
	b.Bind(sched.TaskConfig{
		Name: "encoder_b", Priority: prioEncoder,
		Vector: halcore.VectorEXTI2_3, Source: s.exti.Range(2, 3),
		Uses: []sched.Claim{r.exti, r.position, r.tx, r.leds},
	}, s.onEncoderB)
	b.Bind(sched.TaskConfig{
		Name: "button", Priority: prioButton,
		Vector: halcore.VectorEXTI4_15, Source: s.exti.Range(4, 15),
		Uses: []sched.Claim{r.exti, r.terminal},
	}, s.onButton)
	b.Bind(sched.TaskConfig{
		Name: "usart_rx", Priority: prioUsartRx,
		Vector: halcore.VectorUSART1, Source: s.rx,
		Uses: []sched.Claim{r.rx},
	}, s.onUsartRx)
	s.rxLine = sched.Spawnable(b, sched.TaskConfig{
		Name: "rx_line", Priority: prioRxLine, Capacity: s.cfg.Console.RXQueue,
		Uses: []sched.Claim{r.assembler, r.terminal},
	}, s.onRxLine)
	s.startup = sched.Spawnable(b, sched.TaskConfig{
		Name: "startup", Priority: prioStartup, Capacity: 1,
		Uses: []sched.Claim{r.terminal, r.tx},
	}, s.onStartup)

	core, err := b.Build()
	if err != nil {
		return err
	}
	s.core = core
	s.pender.core = core
	return nil
}

func (s *Service) init() {
	s.core.Init(func(cx *sched.Context) {
		r := &s.res
		_ = r.terminal.Lock(cx, func(t **term.Terminal) {
			*t = term.New(s.board.Display, term.Config{Mirror: s.board.Mirror})
		})
		_ = r.tx.Lock(cx, func(t **term.SerialSink) { *t = term.NewSerial(s.board.TX) })
		_ = r.exti.Lock(cx, func(e **gpioirq.Controller) { *e = s.exti })
		_ = r.position.Lock(cx, func(d **quadrature.Decoder) {
			*d = quadrature.New(s.board.EncoderA, s.board.EncoderB)
		})
		_ = r.leds.Lock(cx, func(l *leds) { *l = leds{green: s.board.LEDGreen, red: s.board.LEDRed} })
		_ = r.timer.Lock(cx, func(t **platform.Timer) { *t = s.timer })
		_ = r.rx.Lock(cx, func(x **uartio.RX) { *x = s.rx })

		sink := &terminalSink{res: r.terminal, cx: s.rxLine.Task().Context()}
		_ = r.assembler.Lock(cx, func(a **lineasm.Assembler) {
			*a = lineasm.New(sink, lineasm.Options{StripCR: s.cfg.Console.StripCR})
		})

		s.startup.Spawn(cx, s.cfg.Console.Banner)
	})
}

// Ready is closed once Run has attached the interrupt sources.
func (s *Service) Ready() <-chan struct{} { return s.ready }

// Run attaches the inputs, starts the timer and the receive pump, leaves
// the init phase and blocks until ctx is done.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inputs := []struct {
		pin  halcore.IRQPin
		line gpioirq.Line
		edge halcore.Edge
		vec  sched.Vector
	}{
		{s.board.EncoderA, LineEncoderA, halcore.EdgeRising, halcore.VectorEXTI0_1},
		{s.board.EncoderB, LineEncoderB, halcore.EdgeRising, halcore.VectorEXTI2_3},
		{s.board.Button, LineButton, halcore.EdgeFalling, halcore.VectorEXTI4_15},
	}
	for _, in := range inputs {
		if in.pin == nil {
			continue
		}
		detach, err := s.exti.Bind(in.pin, in.line, in.edge, in.vec)
		if err != nil {
			return err
		}
		defer detach()
		s.log.Debug("exti:bind",
			slog.Int("pin", in.pin.Number()),
			slog.Int("line", int(in.line)),
			slog.String("edge", halcore.EdgeToString(in.edge)))
	}

	s.timer.Start(ctx, s.cfg.Display.RenderHz)
	if s.board.RX != nil {
		go uartio.Pump(ctx, s.rx, uartio.PumpCfg{
			Port:     s.board.RX,
			MaxChunk: s.cfg.UART.RXChunk,
			Idle:     timex.Ms(s.cfg.UART.IdleTimeoutMs),
			OnError: func(err error) {
				s.log.Warn("uart:recv", slog.String("err", err.Error()))
			},
		})
	}
	hb := &heartbeat.Service{
		Interval: timex.Sec(s.cfg.Log.StatsIntervalS),
		Log:      s.log,
		Snapshot: s.snapshot,
	}
	_ = hb.Start(ctx)

	s.log.Info("console:start",
		slog.String("board", s.board.Name),
		slog.Int("tasks", len(s.core.Stats().Tasks)),
		slog.Uint64("render_hz", uint64(s.cfg.Display.RenderHz)))
	close(s.ready)
	s.core.Start()

	<-ctx.Done()
	s.log.LogAttrs(context.Background(), slog.LevelInfo, "console:stop", s.snapshot()...)
	return nil
}

// Stats is a snapshot of the dispatcher counters.
func (s *Service) Stats() sched.Stats { return s.core.Stats() }

func (s *Service) snapshot() []slog.Attr {
	st := s.core.Stats()
	var runs, drops uint32
	for _, t := range st.Tasks {
		runs += t.Runs
		drops += t.Drops
	}
	ex := s.exti.Stats()
	rx := s.rx.Stats()
	return []slog.Attr{
		slog.Uint64("pends", uint64(st.Pends)),
		slog.Uint64("coalesced", uint64(st.Coalesced)),
		slog.Uint64("runs", uint64(runs)),
		slog.Uint64("drops", uint64(drops)),
		slog.Uint64("edges", uint64(ex.Edges)),
		slog.Uint64("rx_bytes", uint64(rx.Received)),
		slog.Uint64("rx_overruns", uint64(rx.Overruns)),
		slog.Uint64("ticks", uint64(s.timer.Fired())),
	}
}
