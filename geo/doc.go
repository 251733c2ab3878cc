// Package geo holds the validated coordinate type used throughout the pipeline.
//
// A Point can only be obtained from Bounds.Point, so every Point in the system
// has passed the deployment's bounding-box check. Bounds are configuration, not
// constants: DefaultBounds covers the operational region and other deployments
// supply their own envelope through config.
package geo
