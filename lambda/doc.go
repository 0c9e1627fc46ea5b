// Package lambda builds regularization paths: the penalty levels λ at which
// the hierarchical solvers are evaluated and the matching weight matrices.
//
// A path starts at max_λ, the smallest λ that drives every coefficient to
// zero, and decreases log-uniformly to max_λ·ratio:
//
//	lambdas, _ := lambda.Sequence(maxLam, 1e-4, 50)
//	weights, _ := lambda.Weights(ak, lambdas) // column i = ak·λ_i
package lambda
