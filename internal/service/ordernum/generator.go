package ordernum

import (
	"fmt"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/metrics"
)

const (
	// Номер состоит из префикса DS- и пяти десятичных цифр.
	numberPrefix = "DS-"
	numberMin    = 10000
	numberSpan   = 90000

	// Пространство номеров маленькое (90 000 значений), поэтому цикл
	// подбора ограничен: после defaultMaxAttempts попыток генератор
	// возвращает ErrNumberSpaceExhausted вместо бесконечного retry.
	defaultMaxAttempts = 50
)

// Options задаёт параметры генератора номеров.
type Options struct {
	Logger      *log.Entry
	MaxAttempts int
	// Rand позволяет подменить источник случайности в тестах.
	Rand func(n int) int
}

// Option настраивает Generator.
type Option func(*Options)

// WithLogger задаёт logger для генератора.
func WithLogger(logger *log.Entry) Option {
	return func(opts *Options) {
		opts.Logger = logger
	}
}

// WithMaxAttempts задаёт лимит попыток подбора номера.
func WithMaxAttempts(maxAttempts int) Option {
	return func(opts *Options) {
		opts.MaxAttempts = maxAttempts
	}
}

// WithRand задаёт источник случайности (для детерминированных тестов).
func WithRand(fn func(n int) int) Option {
	return func(opts *Options) {
		opts.Rand = fn
	}
}

// Generator подбирает уникальный человекочитаемый номер заказа.
// Уникальность гарантируется проверкой существования в хранилище:
// случайности одной выборки недостаточно, коллизии становятся
// вероятными по мере заполнения пространства номеров.
type Generator struct {
	repo        domain.OrderRepository
	logger      *log.Entry
	maxAttempts int
	randFn      func(n int) int
	metrics     *metrics.OrderMetrics
}

// NewGenerator создаёт генератор поверх хранилища заказов.
func NewGenerator(repo domain.OrderRepository, m *metrics.OrderMetrics, options ...Option) *Generator {
	opts := Options{
		MaxAttempts: defaultMaxAttempts,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "ordernum-generator")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	randFn := opts.Rand
	if randFn == nil {
		randFn = rand.Intn
	}

	return &Generator{
		repo:        repo,
		logger:      logger,
		maxAttempts: opts.MaxAttempts,
		randFn:      randFn,
		metrics:     m,
	}
}

// Generate возвращает номер, не занятый ни одним заказом на момент
// успешной проверки. При недоступности хранилища возвращает
// ErrStoreUnavailable и никогда не отдаёт непроверенный номер.
func (g *Generator) Generate() (string, error) {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s%d", numberPrefix, numberMin+g.randFn(numberSpan))

		exists, err := g.repo.ExistsByNumber(candidate)
		if err != nil {
			g.logger.WithError(err).Error("order number existence check failed")
			return "", fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		}
		if !exists {
			if g.metrics != nil {
				g.metrics.RecordNumberAttempts(attempt)
			}
			return candidate, nil
		}

		if g.metrics != nil {
			g.metrics.RecordNumberCollision()
		}
		g.logger.WithFields(log.Fields{
			"candidate": candidate,
			"attempt":   attempt,
		}).Debug("order number collision, retrying")
	}

	g.logger.WithField("max_attempts", g.maxAttempts).Error("order number generation gave up")
	return "", domain.ErrNumberSpaceExhausted
}
