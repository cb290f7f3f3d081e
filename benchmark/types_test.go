package benchmark

import (
	"math"
	"strconv"
)

type Config struct {
	Host string
	Port int
}

type Logger struct {
	Level string
}

type Database struct {
	Config *Config
	Logger *Logger
}

type Cache struct {
	Logger *Logger
}

type Repository struct {
	DB    *Database
	Cache *Cache
}

type Service struct {
	Repo   *Repository
	Logger *Logger
}

func NewDatabase(cfg *Config, log *Logger) *Database {
	return &Database{Config: cfg, Logger: log}
}

func NewCache(log *Logger) *Cache {
	return &Cache{Logger: log}
}

func NewRepository(db *Database, cache *Cache) *Repository {
	return &Repository{DB: db, Cache: cache}
}

func NewService(repo *Repository, log *Logger) *Service {
	return &Service{Repo: repo, Logger: log}
}

type Shape interface {
	Area() float64
}

type Circle struct {
	Radius float64
}

func NewCircle(radius float64) *Circle {
	return &Circle{Radius: radius}
}

func (c *Circle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

type Palette struct {
	Colors []string
}

func NewPalette() *Palette {
	return &Palette{Colors: []string{"red", "green", "blue"}}
}

type Canvas struct {
	Palette *Palette
	Shape   Shape
}

func NewCanvas(palette *Palette, shape Shape) *Canvas {
	return &Canvas{Palette: palette, Shape: shape}
}

type Renderer struct {
	Canvas *Canvas
	Logger *Logger
}

func NewRenderer(canvas *Canvas, log *Logger) *Renderer {
	return &Renderer{Canvas: canvas, Logger: log}
}

func NewInfoLogger() *Logger {
	return &Logger{Level: "info"}
}

func shapeName(i int) string {
	return "circle_" + strconv.Itoa(i)
}
