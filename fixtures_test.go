package lattice_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"

	"github.com/danpasecinic/lattice"
)

type Shape interface {
	Area() float64
}

type Circle struct {
	Radius float64
}

func NewCircle() *Circle {
	return &Circle{Radius: 1}
}

func NewCircleWithRadius(radius float64) *Circle {
	return &Circle{Radius: radius}
}

func (c *Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

type Square struct {
	Side float64
}

func (s *Square) Area() float64 {
	return s.Side * s.Side
}

type Logger struct {
	Prefix string
}

type Rectangle struct {
	Width  float64
	Height float64
	Logger *Logger
}

func NewRectangle(width, height float64) *Rectangle {
	return &Rectangle{Width: width, Height: height}
}

func NewLoggedRectangle(width, height float64, logger *Logger) *Rectangle {
	return &Rectangle{Width: width, Height: height, Logger: logger}
}

func (r *Rectangle) Area() float64 {
	return r.Width * r.Height
}

type Label struct {
	Text   string
	Logger *Logger
}

func NewLabel(text string, logger *Logger) *Label {
	return &Label{Text: text, Logger: logger}
}

type Canvas struct {
	Ctx      context.Context
	Resolver lattice.Resolver
	Shape    Shape
	Logger   *Logger
}

func NewCanvas(ctx context.Context, r lattice.Resolver, shape Shape, logger *Logger) *Canvas {
	return &Canvas{Ctx: ctx, Resolver: r, Shape: shape, Logger: logger}
}

type Registry map[string]Shape

func NewRegistry(shape Shape) Registry {
	return Registry{"default": shape}
}

type ServiceA struct {
	B *ServiceB
}

type ServiceB struct {
	A *ServiceA
}

func NewServiceA(b *ServiceB) *ServiceA {
	return &ServiceA{B: b}
}

func NewServiceB(a *ServiceA) *ServiceB {
	return &ServiceB{A: a}
}

type Bottom struct{ ID int64 }

type Left struct{ Bottom *Bottom }

type Right struct{ Bottom *Bottom }

type Top struct {
	Left  *Left
	Right *Right
}

func NewLeft(b *Bottom) *Left {
	return &Left{Bottom: b}
}

func NewRight(b *Bottom) *Right {
	return &Right{Bottom: b}
}

func NewTop(l *Left, r *Right) *Top {
	return &Top{Left: l, Right: r}
}

var errBroken = errors.New("broken")

type Broken struct{}

func NewBroken() (*Broken, error) {
	return nil, errBroken
}

type Resource struct {
	closed atomic.Bool
}

func (r *Resource) Close() error {
	r.closed.Store(true)
	return nil
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

// findCode walks the cause chain for the first *lattice.Error with code.
func findCode(err error, code lattice.ErrorCode) *lattice.Error {
	for err != nil {
		var le *lattice.Error
		if !errors.As(err, &le) {
			return nil
		}
		if le.Code == code {
			return le
		}
		err = le.Cause
	}
	return nil
}
