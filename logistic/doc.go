// Package logistic fits the single-predictor hierarchical basis model for a
// binary response along a regularization path.
//
// 🚀 Model
//
//	P(y=1 | x) = σ(β₀ + Xβ), loss (1/n)Σ[log(1+e^η) − yη] + Pen(β),
//	with the intercept β₀ unpenalized and Pen the hierarchical penalty of
//	package prox.
//
// The centered design is orthonormalized as in package univariate
// (X = Q·R, QᵀQ = n·I). On the Q scale the loss Hessian is bounded by I/4,
// so proximal gradient with step t = 4 needs no line search:
//
//	d  = σ(β₀ + Qβ) − y
//	β₀ ← β₀ − t·mean(d)
//	β  ← prox.Hierarchical(β − t·Qᵀd/n, t·w_λ)
//
// Each λ starts from the solution of the previous one. Coefficients are
// mapped back to the basis scale with R·β = β̂.
//
// ⚙️ Usage:
//
//	X, _, _ := basis.Polynomial(x, 6)
//	ak, _ := basis.Weights(6, 2)
//	res, err := logistic.Solve(X, labels, ak, logistic.DefaultOptions())
//	p, _ := res.Prob(X, 10)
package logistic
