package linear

// Option is a functional option configuring a Classifier.
type Option func(*Classifier)

// WithPenalty sets the regularization type: "l2" or "none".
func WithPenalty(penalty string) Option {
	return func(c *Classifier) {
		c.penalty = penalty
	}
}

// WithC sets the inverse regularization strength (1/lambda).
func WithC(cValue float64) Option {
	return func(c *Classifier) {
		c.c = cValue
	}
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(c *Classifier) {
		c.fitIntercept = fit
	}
}

// WithLearningRate sets the base learning rate of the gradient descent.
func WithLearningRate(lr float64) Option {
	return func(c *Classifier) {
		c.learningRate = lr
	}
}

// WithMaxIter sets the maximum number of gradient descent iterations.
func WithMaxIter(maxIter int) Option {
	return func(c *Classifier) {
		c.maxIter = maxIter
	}
}

// WithTol sets the gradient-norm tolerance of the stopping criterion.
func WithTol(tol float64) Option {
	return func(c *Classifier) {
		c.tol = tol
	}
}

// WithRandomState sets the seed of the weight initialization. Negative
// seeds select a non-deterministic source.
func WithRandomState(seed int64) Option {
	return func(c *Classifier) {
		c.randomState = seed
	}
}
