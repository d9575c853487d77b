// Package forecast contiene los servicios de dominio para la estimación de
// demanda: la regresión lineal simple como primitiva reutilizable y las
// estrategias de tasa diaria que consumen entregas completadas.
package forecast

import (
	"math"
	"time"
)

// Point es un par (índice de día, cantidad) para la regresión.
type Point struct {
	X float64
	Y float64
}

// RegressionModel es el resultado de un ajuste por mínimos cuadrados ordinarios.
type RegressionModel struct {
	Slope     float64
	Intercept float64
	RSquared  float64
}

// LinearRegression ajusta una recta por mínimos cuadrados sobre los puntos.
// Con menos de dos puntos devuelve el modelo cero.
func LinearRegression(points []Point) RegressionModel {
	if len(points) < 2 {
		return RegressionModel{}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumXX += p.X * p.X
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return RegressionModel{}
	}
	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for _, p := range points {
		predicted := slope*p.X + intercept
		ssRes += math.Pow(p.Y-predicted, 2)
		ssTot += math.Pow(p.Y-meanY, 2)
	}
	rSquared := 0.0
	if ssTot != 0 {
		rSquared = 1 - ssRes/ssTot
	}

	return RegressionModel{Slope: slope, Intercept: intercept, RSquared: rSquared}
}

// DeliverySample es la cantidad de un producto entregada en una transacción
// completada, con su fecha de completado.
type DeliverySample struct {
	CompletedAt time.Time
	Quantity    float64
}

// Estimator calcula la tasa de demanda diaria a partir de entregas completadas.
// Las implementaciones aplican su propia ventana temporal sobre las muestras.
type Estimator interface {
	DailyRate(samples []DeliverySample, now time.Time) float64
}

// MeanRateEstimator estima la tasa como cantidad total entregada dividida por los
// días transcurridos desde la entrega más antigua de la ventana (divisor mínimo 1).
// Es la estrategia usada por el pronóstico en producción.
type MeanRateEstimator struct {
	WindowDays int
}

// NewMeanRateEstimator construye el estimador con la ventana indicada (días).
func NewMeanRateEstimator(windowDays int) MeanRateEstimator {
	if windowDays <= 0 {
		windowDays = 60
	}
	return MeanRateEstimator{WindowDays: windowDays}
}

// DailyRate devuelve la demanda diaria promedio dentro de la ventana, 0 si no hay
// entregas en ella.
func (e MeanRateEstimator) DailyRate(samples []DeliverySample, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -e.WindowDays)

	var total float64
	var oldest time.Time
	for _, s := range samples {
		if s.CompletedAt.Before(cutoff) {
			continue
		}
		total += s.Quantity
		if oldest.IsZero() || s.CompletedAt.Before(oldest) {
			oldest = s.CompletedAt
		}
	}
	if oldest.IsZero() {
		return 0
	}

	days := int(now.Sub(oldest).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return total / float64(days)
}

// RegressionEstimator estima la tasa con la pendiente de la regresión sobre la
// cantidad agregada por día. Estrategia alternativa, disponible pero no usada en
// el camino de producción.
type RegressionEstimator struct {
	WindowDays int
}

// DailyRate agrega las entregas por día, ajusta la recta y devuelve el valor
// proyectado para hoy (nunca negativo).
func (e RegressionEstimator) DailyRate(samples []DeliverySample, now time.Time) float64 {
	windowDays := e.WindowDays
	if windowDays <= 0 {
		windowDays = 60
	}
	cutoff := now.AddDate(0, 0, -windowDays)

	byDay := make(map[int]float64)
	for _, s := range samples {
		if s.CompletedAt.Before(cutoff) {
			continue
		}
		day := windowDays - int(now.Sub(s.CompletedAt).Hours()/24)
		byDay[day] += s.Quantity
	}
	if len(byDay) == 0 {
		return 0
	}

	points := make([]Point, 0, len(byDay))
	for day, qty := range byDay {
		points = append(points, Point{X: float64(day), Y: qty})
	}
	model := LinearRegression(points)
	rate := model.Slope*float64(windowDays) + model.Intercept
	if rate < 0 {
		return 0
	}
	return rate
}
