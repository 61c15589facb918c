/* Copyright (c) 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

// exported for use by external tests in package s3cache_test
var DrawKey = drawKey
