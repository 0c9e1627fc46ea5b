// Package univariate fits the single-predictor hierarchical basis model
// along a whole regularization path without any iterative optimization.
//
// 🚀 How it works
//
//	The centered n×J design is factorized X = Q·R (economy QR), rescaled so
//	that QᵀQ = n·I. Under that scaling
//
//	  ½n⁻¹‖y − Qβ‖² + Pen(β)   and   ½‖Qᵀy/n − β‖² + Pen(β)
//
//	have the same minimizer, so every λ on the path is a single closed-form
//	hierarchical prox of v = Qᵀy/n. Coefficients are mapped back to the
//	original basis with the triangular solve R·β = β̂.
//
// ⚙️ Usage:
//
//	X, _, _ := basis.Polynomial(x, 10)
//	yc, _, _ := matrix.CenterVec(y)
//	ak, _ := basis.Weights(10, 2)
//	res, err := univariate.Solve(X, yc, ak, univariate.DefaultOptions())
//	// res.Beta is J×nlam, res.Lambdas the realized path
package univariate
