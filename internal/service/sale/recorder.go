package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/domain"
	"github.com/MuhammadFaizanIbrahim/Dijitalspormedya/internal/metrics"
)

// Recorder создаёт запись о продаже из завершённого заказа.
// Инвариант exactly-once обеспечивается хранилищем: повторная запись по
// тому же заказу упирается в ErrSaleExists и трактуется как идемпотентный
// успех — повторные переходы в Completed не плодят дубликаты.
type Recorder struct {
	sales   domain.SaleRepository
	logger  *log.Entry
	metrics *metrics.OrderMetrics
}

// NewRecorder конструирует recorder с зависимостями.
func NewRecorder(sales domain.SaleRepository, m *metrics.OrderMetrics, logger *log.Entry) *Recorder {
	if logger == nil {
		logger = log.WithField("component", "sale-recorder")
	}
	return &Recorder{
		sales:   sales,
		logger:  logger,
		metrics: m,
	}
}

// RecordCompletion строит слепок продажи из заказа и сохраняет его.
// Слепок фиксирует позиции и сумму на момент завершения: последующие
// мутации заказа на продажу не влияют.
func (r *Recorder) RecordCompletion(order domain.Order) (domain.Sale, error) {
	sale := domain.Sale{
		ID:          uuid.NewString(),
		OrderID:     order.ID,
		Products:    order.SnapshotItems(),
		TotalAmount: order.TotalPrice,
		UserID:      order.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if errs := sale.Validate(); len(errs) > 0 {
		return domain.Sale{}, errs[0]
	}

	if err := r.sales.Create(sale); err != nil {
		if errors.Is(err, domain.ErrSaleExists) {
			existing, getErr := r.sales.GetByOrder(order.ID)
			if getErr != nil {
				return domain.Sale{}, fmt.Errorf("load existing sale: %w", getErr)
			}
			r.logger.WithField("order_id", order.ID).Debug("sale already recorded, returning existing")
			return existing, nil
		}
		if r.metrics != nil {
			r.metrics.RecordSaleFailure()
		}
		return domain.Sale{}, fmt.Errorf("persist sale: %w", err)
	}

	if r.metrics != nil {
		r.metrics.RecordSaleRecorded()
	}
	r.logger.WithFields(log.Fields{
		"sale_id":      sale.ID,
		"order_id":     order.ID,
		"total_amount": sale.TotalAmount,
	}).Info("sale recorded")

	return sale, nil
}
